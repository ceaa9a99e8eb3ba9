// Package store implements persistence for users, roles, permissions
// and their memberships on top of the database wrapper.
package store

import (
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/skillsenselab/identity/database"
	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/model"
)

// Page describes a pagination request. Page is 1-based.
type Page struct {
	Page    int
	PerPage int
}

// Offset returns the SQL offset for the page.
func (p Page) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.PerPage
}

// Normalize clamps the request to sane bounds using the given default size.
func (p Page) Normalize(defaultPerPage int) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
	return p
}

// Stores bundles the per-entity stores sharing one connection.
type Stores struct {
	Users       *UserStore
	Roles       *RoleStore
	Permissions *PermissionStore
}

// New builds the store set over the given database.
func New(db *database.DB) *Stores {
	return &Stores{
		Users:       &UserStore{db: db},
		Roles:       &RoleStore{db: db},
		Permissions: &PermissionStore{db: db},
	}
}

// Migrate registers the explicit junction models as join tables and
// migrates the schema. Must run before the first query; without the
// registration GORM would create its own composite-key join tables.
func Migrate(db *database.DB) error {
	g := db.Gorm()
	if err := g.SetupJoinTable(&model.User{}, "Roles", &model.UserRole{}); err != nil {
		return errors.DatabaseError(fmt.Errorf("join table user_roles: %w", err))
	}
	if err := g.SetupJoinTable(&model.User{}, "Permissions", &model.UserPermission{}); err != nil {
		return errors.DatabaseError(fmt.Errorf("join table user_permissions: %w", err))
	}
	return db.AutoMigrate(model.All()...)
}

// translate maps GORM errors onto application errors for one entity kind.
func translate(err error, entity string, op string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return errors.NotFound(entity, "")
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return errors.AlreadyExists(entity)
	default:
		return errors.DatabaseError(fmt.Errorf("%s: %w", op, err))
	}
}

func contains(value string) string {
	return "%" + value + "%"
}
