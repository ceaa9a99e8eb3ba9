// Package handler implements the REST API handlers and route wiring.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/store"
	"github.com/skillsenselab/identity/validation"
)

// bindJSON decodes the body and runs struct validation.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errors.Validation("Request body is not valid JSON.").WithCause(err)
	}
	return validation.Validate(dst)
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (uint, error) {
	return uintParam(c, "id")
}

func uintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.InvalidInput(name, "must be a positive integer")
	}
	return uint(id), nil
}

// pageFromQuery reads page/per_page query parameters.
func pageFromQuery(c *gin.Context, defaultPerPage int) store.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "0"))
	return store.Page{Page: page, PerPage: perPage}.Normalize(defaultPerPage)
}
