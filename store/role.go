package store

import (
	"context"
	"time"

	"github.com/skillsenselab/identity/database"
	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/model"
)

// RoleStore persists roles.
type RoleStore struct {
	db *database.DB
}

func (s *RoleStore) Create(ctx context.Context, role *model.Role) error {
	if err := s.db.WithContext(ctx).Create(role).Error; err != nil {
		return translate(err, "role", "create role")
	}
	return nil
}

func (s *RoleStore) GetByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := s.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, translate(err, "role", "get role")
	}
	return &role, nil
}

// List returns a page of roles, optionally filtered by name containment.
func (s *RoleStore) List(ctx context.Context, name string, page Page) ([]model.Role, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Role{})
	if name != "" {
		query = query.Where("name LIKE ?", contains(name))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "role", "count roles")
	}

	var roles []model.Role
	err := query.Order("id").Offset(page.Offset()).Limit(page.PerPage).Find(&roles).Error
	if err != nil {
		return nil, 0, translate(err, "role", "list roles")
	}
	return roles, total, nil
}

func (s *RoleStore) Update(ctx context.Context, role *model.Role) error {
	now := time.Now()
	role.DateUpdated = &now
	if err := s.db.WithContext(ctx).Save(role).Error; err != nil {
		return translate(err, "role", "update role")
	}
	return nil
}

func (s *RoleStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Role{}, id)
	if result.Error != nil {
		return translate(result.Error, "role", "delete role")
	}
	if result.RowsAffected == 0 {
		return errors.NotFound("role", "")
	}
	return nil
}
