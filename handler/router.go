package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/identity/auth"
	"github.com/skillsenselab/identity/auth/password"
	"github.com/skillsenselab/identity/authz"
	"github.com/skillsenselab/identity/mail"
	"github.com/skillsenselab/identity/server/endpoint"
	"github.com/skillsenselab/identity/server/middleware"
	"github.com/skillsenselab/identity/store"
)

// Deps carries everything route registration needs.
type Deps struct {
	Auth    *auth.Service
	Checker *authz.Checker
	Stores  *store.Stores
	Hasher  password.Hasher
	Mailer  mail.Mailer
	Pinger  endpoint.Pinger
	PerPage int
}

// Register wires all routes onto the engine. Operational and login
// endpoints are public; everything under /api requires a bearer token
// and the named permission.
func Register(router *gin.Engine, deps Deps) {
	router.GET("/healthz", endpoint.Health(deps.Pinger))
	router.GET("/version", endpoint.Version())

	authHandler := NewAuthHandler(deps.Auth)
	userHandler := NewUserHandler(deps.Stores.Users, deps.Hasher, deps.PerPage)
	if deps.Mailer != nil {
		userHandler.SetMailer(deps.Mailer)
	}
	roleHandler := NewRoleHandler(deps.Stores.Roles, deps.PerPage)
	permHandler := NewPermissionHandler(deps.Stores.Permissions, deps.PerPage)

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/refresh", authHandler.Refresh)

		authed := authGroup.Group("", middleware.Auth(deps.Auth))
		authed.POST("/logout", authHandler.Logout)
		authed.GET("/me", authHandler.Me)
	}

	api := router.Group("/api", middleware.Auth(deps.Auth))

	perm := func(name string) gin.HandlerFunc {
		return middleware.RequirePermission(deps.Checker, name)
	}

	users := api.Group("/users")
	{
		users.GET("", perm("read_users"), userHandler.List)
		users.GET("/:id", perm("read_users"), userHandler.Get)
		users.POST("", perm("create_user"), userHandler.Create)
		users.PUT("/:id", perm("update_user"), userHandler.Update)
		users.DELETE("/:id", perm("delete_user"), userHandler.Delete)

		users.GET("/:id/roles", perm("read_users"), userHandler.ListRoles)
		users.POST("/:id/roles", perm("assign_roles"), userHandler.AssignRoles)
		users.PUT("/:id/roles", perm("assign_roles"), userHandler.SyncRoles)
		users.DELETE("/:id/roles/:roleID", perm("assign_roles"), userHandler.RemoveRole)
		users.GET("/:id/permissions", perm("read_users"), userHandler.ListPermissions)
		users.POST("/:id/permissions", perm("assign_permissions"), userHandler.AssignPermissions)
		users.PUT("/:id/permissions", perm("assign_permissions"), userHandler.SyncPermissions)
		users.DELETE("/:id/permissions/:codeName", perm("assign_permissions"), userHandler.RemovePermission)
	}

	roles := api.Group("/roles")
	{
		roles.GET("", perm("read_roles"), roleHandler.List)
		roles.GET("/:id", perm("read_roles"), roleHandler.Get)
		roles.POST("", perm("create_role"), roleHandler.Create)
		roles.PUT("/:id", perm("update_role"), roleHandler.Update)
		roles.DELETE("/:id", perm("delete_role"), roleHandler.Delete)
	}

	permissions := api.Group("/permissions")
	{
		permissions.GET("", perm("read_permissions"), permHandler.List)
		permissions.GET("/:id", perm("read_permissions"), permHandler.Get)
		permissions.POST("", perm("create_permission"), permHandler.Create)
		permissions.PUT("/:id", perm("update_permission"), permHandler.Update)
		permissions.DELETE("/:id", perm("delete_permission"), permHandler.Delete)
	}
}
