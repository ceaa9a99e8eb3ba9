package model

import "time"

// Role is a named grant group (admin, editor, ...).
type Role struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"size:255;uniqueIndex;not null"`
	DateCreated time.Time  `json:"date_created" gorm:"autoCreateTime"`
	DateUpdated *time.Time `json:"date_updated" gorm:"autoUpdateTime:false"`
}

// TableName returns the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// Permission is a named capability (read_users, create_role, ...).
// CodeName is the stable machine identifier used by assign/sync calls;
// Name is the display name matched by authorization checks.
type Permission struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"size:255;uniqueIndex;not null"`
	CodeName    string     `json:"code_name" gorm:"size:255;uniqueIndex;not null"`
	DateCreated time.Time  `json:"date_created" gorm:"autoCreateTime"`
	DateUpdated *time.Time `json:"date_updated" gorm:"autoUpdateTime:false"`
}

// TableName returns the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
