package store

import (
	"context"
	"time"

	"github.com/skillsenselab/identity/database"
	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/model"
)

// PermissionStore persists permissions.
type PermissionStore struct {
	db *database.DB
}

func (s *PermissionStore) Create(ctx context.Context, perm *model.Permission) error {
	if err := s.db.WithContext(ctx).Create(perm).Error; err != nil {
		return translate(err, "permission", "create permission")
	}
	return nil
}

func (s *PermissionStore) GetByID(ctx context.Context, id uint) (*model.Permission, error) {
	var perm model.Permission
	if err := s.db.WithContext(ctx).First(&perm, id).Error; err != nil {
		return nil, translate(err, "permission", "get permission")
	}
	return &perm, nil
}

func (s *PermissionStore) GetByCodeName(ctx context.Context, codeName string) (*model.Permission, error) {
	var perm model.Permission
	err := s.db.WithContext(ctx).Where("code_name = ?", codeName).First(&perm).Error
	if err != nil {
		return nil, translate(err, "permission", "get permission by code name")
	}
	return &perm, nil
}

// List returns a page of permissions, optionally filtered by name containment.
func (s *PermissionStore) List(ctx context.Context, name string, page Page) ([]model.Permission, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Permission{})
	if name != "" {
		query = query.Where("name LIKE ?", contains(name))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "permission", "count permissions")
	}

	var perms []model.Permission
	err := query.Order("id").Offset(page.Offset()).Limit(page.PerPage).Find(&perms).Error
	if err != nil {
		return nil, 0, translate(err, "permission", "list permissions")
	}
	return perms, total, nil
}

func (s *PermissionStore) Update(ctx context.Context, perm *model.Permission) error {
	now := time.Now()
	perm.DateUpdated = &now
	if err := s.db.WithContext(ctx).Save(perm).Error; err != nil {
		return translate(err, "permission", "update permission")
	}
	return nil
}

func (s *PermissionStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Permission{}, id)
	if result.Error != nil {
		return translate(result.Error, "permission", "delete permission")
	}
	if result.RowsAffected == 0 {
		return errors.NotFound("permission", "")
	}
	return nil
}
