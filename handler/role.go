package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/identity/model"
	"github.com/skillsenselab/identity/server"
	"github.com/skillsenselab/identity/store"
)

// RoleHandler serves role CRUD.
type RoleHandler struct {
	roles   *store.RoleStore
	perPage int
}

// NewRoleHandler builds the handler.
func NewRoleHandler(roles *store.RoleStore, perPage int) *RoleHandler {
	return &RoleHandler{roles: roles, perPage: perPage}
}

func (h *RoleHandler) List(c *gin.Context) {
	page := pageFromQuery(c, h.perPage)
	roles, total, err := h.roles.List(c.Request.Context(), c.Query("name"), page)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondPaged(c, roles, server.NewPageMeta(page.Page, page.PerPage, total))
}

func (h *RoleHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	role, err := h.roles.GetByID(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, role)
}

type roleRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req roleRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	role := &model.Role{Name: req.Name}
	if err := h.roles.Create(c.Request.Context(), role); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, role)
}

func (h *RoleHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req roleRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	role, err := h.roles.GetByID(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	role.Name = req.Name
	if err := h.roles.Update(c.Request.Context(), role); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, role)
}

func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.roles.Delete(c.Request.Context(), id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}
