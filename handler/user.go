package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/identity/auth/password"
	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/logger"
	"github.com/skillsenselab/identity/mail"
	"github.com/skillsenselab/identity/model"
	"github.com/skillsenselab/identity/server"
	"github.com/skillsenselab/identity/store"
)

// UserHandler serves user CRUD and membership management.
type UserHandler struct {
	users   *store.UserStore
	hasher  password.Hasher
	mailer  mail.Mailer
	perPage int
}

// NewUserHandler builds the handler.
func NewUserHandler(users *store.UserStore, hasher password.Hasher, perPage int) *UserHandler {
	return &UserHandler{users: users, hasher: hasher, perPage: perPage}
}

// SetMailer enables password-change notifications.
func (h *UserHandler) SetMailer(mailer mail.Mailer) {
	h.mailer = mailer
}

// List returns a paginated user listing. Filters match by containment.
func (h *UserHandler) List(c *gin.Context) {
	filter := store.UserFilter{
		Name:     c.Query("name"),
		Username: c.Query("username"),
		Email:    c.Query("email"),
	}
	page := pageFromQuery(c, h.perPage)

	users, total, err := h.users.List(c.Request.Context(), filter, page)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondPaged(c, users, server.NewPageMeta(page.Page, page.PerPage, total))
}

// Get returns one user with roles and permissions.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, user)
}

type createUserRequest struct {
	Name         string `json:"name" validate:"required"`
	Username     string `json:"username" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	IsSuperadmin bool   `json:"is_superadmin"`
}

// Create adds a user with a hashed credential.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	digest, err := h.hasher.Hash(req.Password)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	user := &model.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		Password:     digest,
		IsSuperadmin: req.IsSuperadmin,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, user)
}

type updateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Username *string `json:"username" validate:"omitempty,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// Update applies a partial update; omitted fields keep their values.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req updateUserRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		digest, err := h.hasher.Hash(*req.Password)
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		user.Password = digest
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if req.Password != nil && h.mailer != nil {
		if err := h.mailer.SendPasswordChanged(c.Request.Context(), user); err != nil {
			// mail failure must not fail the update
			logger.WithComponent("handler").WithError(err).Warn("password changed mail failed",
				map[string]interface{}{logger.FieldUserID: user.ID})
		}
	}
	server.RespondOK(c, user)
}

// Delete removes a user and their memberships.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

type assignRolesRequest struct {
	RoleIDs []uint `json:"role_ids" validate:"required,min=1,dive,gt=0"`
}

// AssignRoles adds roles to the user, keeping existing ones.
func (h *UserHandler) AssignRoles(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req assignRolesRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.users.AssignRoles(c.Request.Context(), id, req.RoleIDs); err != nil {
		server.RespondWithError(c, err)
		return
	}
	h.respondWithUser(c, id)
}

type syncRolesRequest struct {
	RoleIDs []uint `json:"role_ids" validate:"dive,gt=0"`
}

// SyncRoles replaces the user's role set. An empty list clears it.
func (h *UserHandler) SyncRoles(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req syncRolesRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.users.SyncRoles(c.Request.Context(), id, req.RoleIDs); err != nil {
		server.RespondWithError(c, err)
		return
	}
	h.respondWithUser(c, id)
}

// ListRoles returns the roles linked to the user.
func (h *UserHandler) ListRoles(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, user.Roles)
}

// RemoveRole unlinks one role from the user.
func (h *UserHandler) RemoveRole(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	roleID, err := uintParam(c, "roleID")
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.users.RemoveRole(c.Request.Context(), id, roleID); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

type assignPermissionsRequest struct {
	CodeNames []string `json:"code_names" validate:"required,min=1,dive,required"`
}

// AssignPermissions adds direct permissions by code name.
func (h *UserHandler) AssignPermissions(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req assignPermissionsRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.users.AssignPermissions(c.Request.Context(), id, req.CodeNames); err != nil {
		server.RespondWithError(c, err)
		return
	}
	h.respondWithUser(c, id)
}

type syncPermissionsRequest struct {
	CodeNames []string `json:"code_names" validate:"dive,required"`
}

// SyncPermissions replaces the user's direct permission set.
func (h *UserHandler) SyncPermissions(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	var req syncPermissionsRequest
	if err := bindJSON(c, &req); err != nil {
		server.RespondWithError(c, err)
		return
	}
	if err := h.users.SyncPermissions(c.Request.Context(), id, req.CodeNames); err != nil {
		server.RespondWithError(c, err)
		return
	}
	h.respondWithUser(c, id)
}

// ListPermissions returns the user's direct permissions.
func (h *UserHandler) ListPermissions(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, user.Permissions)
}

// RemovePermission unlinks one direct permission by code name.
func (h *UserHandler) RemovePermission(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	codeName := c.Param("codeName")
	if codeName == "" {
		server.RespondWithError(c, errors.InvalidInput("codeName", "must not be empty"))
		return
	}
	if err := h.users.RemovePermission(c.Request.Context(), id, codeName); err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondNoContent(c)
}

func (h *UserHandler) respondWithUser(c *gin.Context, id uint) {
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondOK(c, user)
}
