package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/skillsenselab/identity/database"
	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/model"
)

// UserFilter narrows user listings. Empty fields match everything.
type UserFilter struct {
	Name     string
	Username string
	Email    string
}

// UserStore persists users and their role/permission memberships.
type UserStore struct {
	db *database.DB
}

// Create inserts a new user.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "user", "create user")
	}
	return nil
}

// GetByID loads a user with roles and permissions preloaded.
func (s *UserStore) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Preload("Roles").
		Preload("Permissions").
		First(&user, id).Error
	if err != nil {
		return nil, translate(err, "user", "get user")
	}
	return &user, nil
}

// GetByEmail loads a user by exact email match.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate(err, "user", "get user by email")
	}
	return &user, nil
}

// GetByUsername loads a user by exact username match.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, translate(err, "user", "get user by username")
	}
	return &user, nil
}

// List returns a page of users matching the filter plus the total count.
func (s *UserStore) List(ctx context.Context, filter UserFilter, page Page) ([]model.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.User{})
	if filter.Name != "" {
		query = query.Where("name LIKE ?", contains(filter.Name))
	}
	if filter.Username != "" {
		query = query.Where("username LIKE ?", contains(filter.Username))
	}
	if filter.Email != "" {
		query = query.Where("email LIKE ?", contains(filter.Email))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "user", "count users")
	}

	var users []model.User
	err := query.
		Preload("Roles").
		Preload("Permissions").
		Order("id").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&users).Error
	if err != nil {
		return nil, 0, translate(err, "user", "list users")
	}
	return users, total, nil
}

// Update saves changed fields and stamps DateUpdated.
func (s *UserStore) Update(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.DateUpdated = &now
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return translate(err, "user", "update user")
	}
	return nil
}

// Delete removes a user; memberships cascade.
func (s *UserStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return translate(result.Error, "user", "delete user")
	}
	if result.RowsAffected == 0 {
		return errors.NotFound("user", "")
	}
	return nil
}

// AssignRoles links the given roles to the user, skipping links that
// already exist. Unknown role IDs are rejected.
func (s *UserStore) AssignRoles(ctx context.Context, userID uint, roleIDs []uint) error {
	return s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUser(tx, userID); err != nil {
			return err
		}
		roles, err := rolesByID(tx, roleIDs)
		if err != nil {
			return err
		}
		existing, err := linkedRoleIDs(tx, userID)
		if err != nil {
			return err
		}
		for _, role := range roles {
			if existing[role.ID] {
				continue
			}
			link := model.UserRole{UserID: userID, RoleID: role.ID}
			if err := tx.Create(&link).Error; err != nil {
				return translate(err, "user role", "assign role")
			}
		}
		return nil
	})
}

// SyncRoles replaces the user's role set with exactly the given roles.
// New links are inserted and stale ones removed in one transaction.
func (s *UserStore) SyncRoles(ctx context.Context, userID uint, roleIDs []uint) error {
	return s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUser(tx, userID); err != nil {
			return err
		}
		roles, err := rolesByID(tx, roleIDs)
		if err != nil {
			return err
		}
		wanted := make(map[uint]bool, len(roles))
		for _, role := range roles {
			wanted[role.ID] = true
		}
		existing, err := linkedRoleIDs(tx, userID)
		if err != nil {
			return err
		}
		for id := range wanted {
			if existing[id] {
				continue
			}
			link := model.UserRole{UserID: userID, RoleID: id}
			if err := tx.Create(&link).Error; err != nil {
				return translate(err, "user role", "sync roles")
			}
		}
		var stale []uint
		for id := range existing {
			if !wanted[id] {
				stale = append(stale, id)
			}
		}
		if len(stale) > 0 {
			err := tx.Where("user_id = ? AND role_id IN ?", userID, stale).
				Delete(&model.UserRole{}).Error
			if err != nil {
				return translate(err, "user role", "sync roles")
			}
		}
		return nil
	})
}

// AssignPermissions links direct permissions to the user by code name,
// skipping links that already exist.
func (s *UserStore) AssignPermissions(ctx context.Context, userID uint, codeNames []string) error {
	return s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUser(tx, userID); err != nil {
			return err
		}
		perms, err := permissionsByCodeName(tx, codeNames)
		if err != nil {
			return err
		}
		existing, err := linkedPermissionIDs(tx, userID)
		if err != nil {
			return err
		}
		for _, perm := range perms {
			if existing[perm.ID] {
				continue
			}
			link := model.UserPermission{UserID: userID, PermissionID: perm.ID}
			if err := tx.Create(&link).Error; err != nil {
				return translate(err, "user permission", "assign permission")
			}
		}
		return nil
	})
}

// SyncPermissions replaces the user's direct permission set with exactly
// the permissions named by codeNames, in one transaction.
func (s *UserStore) SyncPermissions(ctx context.Context, userID uint, codeNames []string) error {
	return s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUser(tx, userID); err != nil {
			return err
		}
		perms, err := permissionsByCodeName(tx, codeNames)
		if err != nil {
			return err
		}
		wanted := make(map[uint]bool, len(perms))
		for _, perm := range perms {
			wanted[perm.ID] = true
		}
		existing, err := linkedPermissionIDs(tx, userID)
		if err != nil {
			return err
		}
		for id := range wanted {
			if existing[id] {
				continue
			}
			link := model.UserPermission{UserID: userID, PermissionID: id}
			if err := tx.Create(&link).Error; err != nil {
				return translate(err, "user permission", "sync permissions")
			}
		}
		var stale []uint
		for id := range existing {
			if !wanted[id] {
				stale = append(stale, id)
			}
		}
		if len(stale) > 0 {
			err := tx.Where("user_id = ? AND permission_id IN ?", userID, stale).
				Delete(&model.UserPermission{}).Error
			if err != nil {
				return translate(err, "user permission", "sync permissions")
			}
		}
		return nil
	})
}

// RemoveRole unlinks a single role from the user. Removing a role the
// user does not hold is reported as not found.
func (s *UserStore) RemoveRole(ctx context.Context, userID, roleID uint) error {
	return s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUser(tx, userID); err != nil {
			return err
		}
		result := tx.Where("user_id = ? AND role_id = ?", userID, roleID).
			Delete(&model.UserRole{})
		if result.Error != nil {
			return translate(result.Error, "user role", "remove role")
		}
		if result.RowsAffected == 0 {
			return errors.NotFound("user role", "")
		}
		return nil
	})
}

// RemovePermission unlinks a single direct permission, addressed by its
// code name as in assign and sync.
func (s *UserStore) RemovePermission(ctx context.Context, userID uint, codeName string) error {
	return s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := ensureUser(tx, userID); err != nil {
			return err
		}
		perms, err := permissionsByCodeName(tx, []string{codeName})
		if err != nil {
			return err
		}
		result := tx.Where("user_id = ? AND permission_id = ?", userID, perms[0].ID).
			Delete(&model.UserPermission{})
		if result.Error != nil {
			return translate(result.Error, "user permission", "remove permission")
		}
		if result.RowsAffected == 0 {
			return errors.NotFound("user permission", "")
		}
		return nil
	})
}

// CountRolesMatching counts the user's roles whose name contains the
// given fragment.
func (s *UserStore) CountRolesMatching(ctx context.Context, userID uint, name string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND roles.name LIKE ?", userID, contains(name)).
		Count(&count).Error
	if err != nil {
		return 0, translate(err, "role", "count user roles")
	}
	return count, nil
}

// CountPermissionsMatching counts the user's direct permissions whose
// name contains the given fragment.
func (s *UserStore) CountPermissionsMatching(ctx context.Context, userID uint, name string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Permission{}).
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ? AND permissions.name LIKE ?", userID, contains(name)).
		Count(&count).Error
	if err != nil {
		return 0, translate(err, "permission", "count user permissions")
	}
	return count, nil
}

func ensureUser(tx *gorm.DB, userID uint) error {
	var count int64
	if err := tx.Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return translate(err, "user", "find user")
	}
	if count == 0 {
		return errors.NotFound("user", "")
	}
	return nil
}

func rolesByID(tx *gorm.DB, ids []uint) ([]model.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var roles []model.Role
	if err := tx.Where("id IN ?", ids).Find(&roles).Error; err != nil {
		return nil, translate(err, "role", "find roles")
	}
	if len(roles) != len(uniqueIDs(ids)) {
		return nil, errors.NotFound("role", "")
	}
	return roles, nil
}

func permissionsByCodeName(tx *gorm.DB, codeNames []string) ([]model.Permission, error) {
	if len(codeNames) == 0 {
		return nil, nil
	}
	var perms []model.Permission
	if err := tx.Where("code_name IN ?", codeNames).Find(&perms).Error; err != nil {
		return nil, translate(err, "permission", "find permissions")
	}
	unique := make(map[string]bool, len(codeNames))
	for _, name := range codeNames {
		unique[name] = true
	}
	if len(perms) != len(unique) {
		return nil, errors.NotFound("permission", "")
	}
	return perms, nil
}

func linkedRoleIDs(tx *gorm.DB, userID uint) (map[uint]bool, error) {
	var links []model.UserRole
	if err := tx.Where("user_id = ?", userID).Find(&links).Error; err != nil {
		return nil, translate(err, "user role", "list user roles")
	}
	out := make(map[uint]bool, len(links))
	for _, link := range links {
		out[link.RoleID] = true
	}
	return out, nil
}

func linkedPermissionIDs(tx *gorm.DB, userID uint) (map[uint]bool, error) {
	var links []model.UserPermission
	if err := tx.Where("user_id = ?", userID).Find(&links).Error; err != nil {
		return nil, translate(err, "user permission", "list user permissions")
	}
	out := make(map[uint]bool, len(links))
	for _, link := range links {
		out[link.PermissionID] = true
	}
	return out, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	var out []uint
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
