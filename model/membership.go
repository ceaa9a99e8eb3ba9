package model

// UserRole links a user to a role. The composite unique index closes the
// duplicate-membership race under concurrent assign calls; cascade deletes
// keep junctions consistent when either side is removed.
type UserRole struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"not null;uniqueIndex:idx_user_role"`
	RoleID uint `json:"role_id" gorm:"not null;uniqueIndex:idx_user_role"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role Role `json:"-" gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the UserRole model.
func (UserRole) TableName() string {
	return "user_roles"
}

// UserPermission links a user to a directly granted permission.
type UserPermission struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	UserID       uint `json:"user_id" gorm:"not null;uniqueIndex:idx_user_permission"`
	PermissionID uint `json:"permission_id" gorm:"not null;uniqueIndex:idx_user_permission"`

	User       User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Permission Permission `json:"-" gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for the UserPermission model.
func (UserPermission) TableName() string {
	return "user_permissions"
}

// All lists every model for auto-migration, junction tables last so their
// foreign keys resolve.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Role{},
		&Permission{},
		&UserRole{},
		&UserPermission{},
	}
}
