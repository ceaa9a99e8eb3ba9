package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/logger"
)

// PageMeta describes one page of a paginated listing.
type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// PagedResponse is the envelope for paginated listings.
type PagedResponse struct {
	Data interface{} `json:"data"`
	Meta PageMeta    `json:"meta"`
}

// NewPageMeta computes the meta block for a listing.
func NewPageMeta(page, perPage int, total int64) PageMeta {
	totalPages := int64(0)
	if perPage > 0 {
		totalPages = (total + int64(perPage) - 1) / int64(perPage)
	}
	return PageMeta{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// RespondOK writes a 200 response with the given payload.
func RespondOK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// RespondCreated writes a 201 response with the given payload.
func RespondCreated(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

// RespondNoContent writes an empty 204 response.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondPaged writes a 200 response with data and pagination meta.
func RespondPaged(c *gin.Context, data interface{}, meta PageMeta) {
	c.JSON(http.StatusOK, PagedResponse{Data: data, Meta: meta})
}

// RespondWithError maps any error to the standard error envelope.
// Unexpected errors become opaque 500s; their cause is logged, not sent.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.WithComponent("http").WithError(err).Error("request failed", map[string]interface{}{
			logger.FieldPath: c.FullPath(),
		})
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
