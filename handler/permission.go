package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/identity/model"
	"github.com/skillsenselab/identity/server"
	"github.com/skillsenselab/identity/store"
)

// PermissionHandler serves permission CRUD.
type PermissionHandler struct {
	permissions *store.PermissionStore
	perPage     int
}

// NewPermissionHandler builds the handler.
func NewPermissionHandler(permissions *store.PermissionStore, perPage int) *PermissionHandler {
	return &PermissionHandler{permissions: permissions, perPage: perPage}
}

func (h *PermissionHandler) List(c *gin.Context) {
	page := pageFromQuery(c, h.perPage)
	perms, total, err := h.permissions.List(c.Request.Context(), c.Query("name"), page)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondPaged(c, perms, server.NewPageMeta(page.Page, page.PerPage, total))
}

func (h *PermissionHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	perm, err := h.permissions.GetByID(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, perm)
}

type permissionRequest struct {
	Name     string `json:"name" validate:"required"`
	CodeName string `json:"code_name" validate:"required"`
}

func (h *PermissionHandler) Create(c *gin.Context) {
	var req permissionRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	perm := &model.Permission{Name: req.Name, CodeName: req.CodeName}
	if err := h.permissions.Create(c.Request.Context(), perm); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, perm)
}

func (h *PermissionHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req permissionRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	perm, err := h.permissions.GetByID(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	perm.Name = req.Name
	perm.CodeName = req.CodeName
	if err := h.permissions.Update(c.Request.Context(), perm); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, perm)
}

func (h *PermissionHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.permissions.Delete(c.Request.Context(), id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}
