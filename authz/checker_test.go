package authz

import (
	"context"
	"strings"
	"testing"

	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/model"
)

// fakeCounter matches by containment against fixed name sets and counts
// how many lookups were made.
type fakeCounter struct {
	roles       map[uint][]string
	permissions map[uint][]string
	calls       int
	err         error
}

func (f *fakeCounter) CountRolesMatching(_ context.Context, userID uint, name string) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return countContaining(f.roles[userID], name), nil
}

func (f *fakeCounter) CountPermissionsMatching(_ context.Context, userID uint, name string) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return countContaining(f.permissions[userID], name), nil
}

func countContaining(names []string, fragment string) int64 {
	var n int64
	for _, name := range names {
		if strings.Contains(name, fragment) {
			n++
		}
	}
	return n
}

func identity(id uint, superadmin bool) *model.Identity {
	return &model.Identity{ID: id, Username: "u", Email: "u@example.com", IsSuperadmin: superadmin}
}

func TestHasRole(t *testing.T) {
	tests := []struct {
		name     string
		roles    []string
		check    string
		wantCode errors.ErrorCode
	}{
		{"exact match", []string{"editor"}, "editor", ""},
		{"fragment matches containment", []string{"editor"}, "edit", ""},
		{"longer name than held role fails", []string{"editor"}, "editor-in-chief", errors.ErrCodeForbidden},
		{"no roles", nil, "editor", errors.ErrCodeForbidden},
		{"unrelated role", []string{"viewer"}, "editor", errors.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &fakeCounter{roles: map[uint][]string{1: tt.roles}}
			checker := NewChecker(counter)
			err := checker.HasRole(context.Background(), identity(1, false), tt.check)
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name        string
		permissions []string
		check       string
		wantCode    errors.ErrorCode
	}{
		{"exact match", []string{"read_users"}, "read_users", ""},
		{"fragment matches containment", []string{"read_users"}, "read", ""},
		{"missing permission", []string{"read_users"}, "delete_user", errors.ErrCodeForbidden},
		{"empty set", nil, "read_users", errors.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &fakeCounter{permissions: map[uint][]string{1: tt.permissions}}
			checker := NewChecker(counter)
			err := checker.HasPermission(context.Background(), identity(1, false), tt.check)
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestSuperadminBypassesLookup(t *testing.T) {
	counter := &fakeCounter{}
	checker := NewChecker(counter)
	super := identity(1, true)

	if err := checker.HasRole(context.Background(), super, "anything"); err != nil {
		t.Errorf("HasRole for superadmin: %v", err)
	}
	if err := checker.HasPermission(context.Background(), super, "anything"); err != nil {
		t.Errorf("HasPermission for superadmin: %v", err)
	}
	if counter.calls != 0 {
		t.Errorf("superadmin triggered %d store lookups, want 0", counter.calls)
	}
}

func TestNilIdentityIsUnauthorized(t *testing.T) {
	checker := NewChecker(&fakeCounter{})
	err := checker.HasRole(context.Background(), nil, "editor")
	assertCode(t, err, errors.ErrCodeUnauthorized)
	err = checker.HasPermission(context.Background(), nil, "read_users")
	assertCode(t, err, errors.ErrCodeUnauthorized)
}

func TestStoreErrorPropagates(t *testing.T) {
	counter := &fakeCounter{err: errors.DatabaseError(context.DeadlineExceeded)}
	checker := NewChecker(counter)
	err := checker.HasRole(context.Background(), identity(1, false), "editor")
	assertCode(t, err, errors.ErrCodeDatabaseError)
}

func assertCode(t *testing.T, err error, wantCode errors.ErrorCode) {
	t.Helper()
	if wantCode == "" {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		return
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError with code %s, got %v", wantCode, err)
	}
	if appErr.Code != wantCode {
		t.Errorf("code = %s, want %s", appErr.Code, wantCode)
	}
}
