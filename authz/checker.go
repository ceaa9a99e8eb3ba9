// Package authz answers role and permission questions about an
// authenticated identity.
//
// Matching is by name containment rather than equality: a user holding
// the role "editor" satisfies a check for "edit". Superadmins satisfy
// every check without touching the store.
package authz

import (
	"context"

	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/model"
)

// MembershipCounter counts a user's memberships whose name contains the
// given fragment. Implemented by store.UserStore.
type MembershipCounter interface {
	CountRolesMatching(ctx context.Context, userID uint, name string) (int64, error)
	CountPermissionsMatching(ctx context.Context, userID uint, name string) (int64, error)
}

// Checker evaluates role and permission requirements.
type Checker struct {
	counter MembershipCounter
}

// NewChecker builds a Checker over the given membership source.
func NewChecker(counter MembershipCounter) *Checker {
	return &Checker{counter: counter}
}

// HasRole verifies the identity holds at least one role whose name
// contains role. Superadmins pass without a lookup.
func (c *Checker) HasRole(ctx context.Context, identity *model.Identity, role string) error {
	if identity == nil {
		return errors.Unauthorized("")
	}
	if identity.IsSuperadmin {
		return nil
	}
	count, err := c.counter.CountRolesMatching(ctx, identity.ID, role)
	if err != nil {
		return err
	}
	if count == 0 {
		return errors.Forbidden("")
	}
	return nil
}

// HasPermission verifies the identity holds at least one direct
// permission whose name contains permission. Superadmins pass without
// a lookup.
func (c *Checker) HasPermission(ctx context.Context, identity *model.Identity, permission string) error {
	if identity == nil {
		return errors.Unauthorized("")
	}
	if identity.IsSuperadmin {
		return nil
	}
	count, err := c.counter.CountPermissionsMatching(ctx, identity.ID, permission)
	if err != nil {
		return err
	}
	if count == 0 {
		return errors.Forbidden("")
	}
	return nil
}
