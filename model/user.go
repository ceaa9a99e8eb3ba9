// Package model defines the persistent entities of the identity service.
package model

import "time"

// User is an account that can authenticate and hold roles/permissions.
// Password stores the credential digest, never the plaintext, and is
// excluded from JSON.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"size:255;not null"`
	Username     string     `json:"username" gorm:"size:100;uniqueIndex;not null"`
	Email        string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password     string     `json:"-" gorm:"size:255;not null"`
	IsSuperadmin bool       `json:"is_superadmin" gorm:"not null;default:false"`
	DateCreated  time.Time  `json:"date_created" gorm:"autoCreateTime"`
	DateUpdated  *time.Time `json:"date_updated" gorm:"autoUpdateTime:false"`

	Roles       []Role       `json:"roles,omitempty" gorm:"many2many:user_roles;"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:user_permissions;"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// Identity is the authenticated view of a user attached to a request
// context by the auth middleware. It carries everything authorization
// checks need without another lookup.
type Identity struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	IsSuperadmin bool   `json:"is_superadmin"`
}

// IdentityOf builds the request-scoped identity for a user record.
func IdentityOf(u *User) *Identity {
	return &Identity{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		IsSuperadmin: u.IsSuperadmin,
	}
}
