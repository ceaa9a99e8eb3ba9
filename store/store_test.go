package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/skillsenselab/identity/database"
	"github.com/skillsenselab/identity/errors"
	"github.com/skillsenselab/identity/logger"
	"github.com/skillsenselab/identity/model"
)

func newTestStores(t *testing.T) *Stores {
	t.Helper()
	cfg := database.Config{
		Driver:             "sqlite",
		DSN:                ":memory:",
		MaxOpenConns:       1,
		MaxIdleConns:       1,
		ConnMaxLifetime:    "1h",
		MaxRetries:         1,
		AutoMigrate:        true,
		SlowQueryThreshold: "200ms",
		LogLevel:           "silent",
	}
	db, err := database.New(context.Background(), cfg, logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Gorm().Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func seedUser(t *testing.T, s *Stores, username string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "Test " + username,
		Username: username,
		Email:    username + "@example.com",
		Password: "digest",
	}
	if err := s.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedRole(t *testing.T, s *Stores, name string) *model.Role {
	t.Helper()
	role := &model.Role{Name: name}
	if err := s.Roles.Create(context.Background(), role); err != nil {
		t.Fatalf("seed role %s: %v", name, err)
	}
	return role
}

func seedPermission(t *testing.T, s *Stores, name, codeName string) *model.Permission {
	t.Helper()
	perm := &model.Permission{Name: name, CodeName: codeName}
	if err := s.Permissions.Create(context.Background(), perm); err != nil {
		t.Fatalf("seed permission %s: %v", name, err)
	}
	return perm
}

func TestUserStoreCreateAndLookup(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	user := seedUser(t, s, "alice")
	if user.ID == 0 {
		t.Fatal("expected assigned ID")
	}
	if user.DateCreated.IsZero() {
		t.Error("expected DateCreated to be set")
	}
	if user.DateUpdated != nil {
		t.Errorf("expected nil DateUpdated on create, got %v", user.DateUpdated)
	}

	byName, err := s.Users.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if byName.ID != user.ID {
		t.Errorf("GetByUsername ID = %d, want %d", byName.ID, user.ID)
	}

	byEmail, err := s.Users.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("GetByEmail ID = %d, want %d", byEmail.ID, user.ID)
	}

	if _, err := s.Users.GetByEmail(ctx, "ALICE@example.com"); err == nil {
		t.Error("expected exact email match, uppercase lookup succeeded")
	}
}

func TestUserStoreDuplicateUsername(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	seedUser(t, s, "bob")
	dup := &model.User{Name: "Other Bob", Username: "bob", Email: "other@example.com", Password: "x"}
	err := s.Users.Create(ctx, dup)
	if err == nil {
		t.Fatal("expected duplicate username to fail")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeAlreadyExists {
		t.Errorf("expected %s, got %v", errors.ErrCodeAlreadyExists, err)
	}
}

func TestUserStoreListPagination(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedUser(t, s, fmt.Sprintf("user%d", i))
	}

	users, total, err := s.Users.List(ctx, UserFilter{}, Page{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(users) != 2 {
		t.Fatalf("page size = %d, want 2", len(users))
	}
	if users[0].Username != "user2" {
		t.Errorf("first on page 2 = %s, want user2", users[0].Username)
	}

	filtered, total, err := s.Users.List(ctx, UserFilter{Username: "user3"}, Page{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("filtered List: %v", err)
	}
	if total != 1 || len(filtered) != 1 || filtered[0].Username != "user3" {
		t.Errorf("filter by username returned %d rows (total %d)", len(filtered), total)
	}
}

func TestUserStoreUpdateStampsDate(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	user := seedUser(t, s, "carol")
	user.Name = "Carol Renamed"
	if err := s.Users.Update(ctx, user); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if user.DateUpdated == nil {
		t.Error("expected DateUpdated to be stamped")
	}

	got, err := s.Users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Carol Renamed" {
		t.Errorf("Name = %s, want Carol Renamed", got.Name)
	}
}

func TestUserStoreDeleteMissing(t *testing.T) {
	s := newTestStores(t)
	err := s.Users.Delete(context.Background(), 9999)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("expected %s, got %v", errors.ErrCodeNotFound, err)
	}
}

func TestAssignRolesSkipsExisting(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	user := seedUser(t, s, "dave")
	editor := seedRole(t, s, "editor")
	viewer := seedRole(t, s, "viewer")

	if err := s.Users.AssignRoles(ctx, user.ID, []uint{editor.ID}); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	// assigning again with an overlap must not duplicate the link
	if err := s.Users.AssignRoles(ctx, user.ID, []uint{editor.ID, viewer.ID}); err != nil {
		t.Fatalf("second assign: %v", err)
	}

	got, err := s.Users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Roles) != 2 {
		t.Errorf("roles = %d, want 2", len(got.Roles))
	}
}

func TestAssignRolesUnknownRole(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	user := seedUser(t, s, "erin")
	err := s.Users.AssignRoles(ctx, user.ID, []uint{9999})
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("expected %s, got %v", errors.ErrCodeNotFound, err)
	}
}

func TestSyncRolesReplacesSet(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	user := seedUser(t, s, "frank")
	editor := seedRole(t, s, "editor")
	viewer := seedRole(t, s, "viewer")
	admin := seedRole(t, s, "admin")

	if err := s.Users.AssignRoles(ctx, user.ID, []uint{editor.ID, viewer.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := s.Users.SyncRoles(ctx, user.ID, []uint{viewer.ID, admin.ID}); err != nil {
		t.Fatalf("sync: %v", err)
	}

	got, err := s.Users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	names := map[string]bool{}
	for _, role := range got.Roles {
		names[role.Name] = true
	}
	if len(names) != 2 || !names["viewer"] || !names["admin"] {
		t.Errorf("roles after sync = %v, want viewer+admin", names)
	}
}

func TestSyncRolesUnknownRoleLeavesSetUntouched(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	user := seedUser(t, s, "grace")
	editor := seedRole(t, s, "editor")
	if err := s.Users.AssignRoles(ctx, user.ID, []uint{editor.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	err := s.Users.SyncRoles(ctx, user.ID, []uint{editor.ID, 9999})
	if err == nil {
		t.Fatal("expected sync with unknown role to fail")
	}

	got, err := s.Users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Roles) != 1 || got.Roles[0].Name != "editor" {
		t.Errorf("roles after failed sync = %v, want just editor", got.Roles)
	}
}

func TestSyncPermissionsByCodeName(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	user := seedUser(t, s, "heidi")
	seedPermission(t, s, "Read users", "read_users")
	seedPermission(t, s, "Create user", "create_user")
	seedPermission(t, s, "Delete user", "delete_user")

	if err := s.Users.AssignPermissions(ctx, user.ID, []string{"read_users", "create_user"}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := s.Users.SyncPermissions(ctx, user.ID, []string{"create_user", "delete_user"}); err != nil {
		t.Fatalf("sync: %v", err)
	}

	got, err := s.Users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	codes := map[string]bool{}
	for _, perm := range got.Permissions {
		codes[perm.CodeName] = true
	}
	if len(codes) != 2 || !codes["create_user"] || !codes["delete_user"] {
		t.Errorf("permissions after sync = %v, want create_user+delete_user", codes)
	}
}

func TestRemoveRole(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	user := seedUser(t, s, "ivan")
	editor := seedRole(t, s, "editor")
	viewer := seedRole(t, s, "viewer")
	if err := s.Users.AssignRoles(ctx, user.ID, []uint{editor.ID, viewer.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := s.Users.RemoveRole(ctx, user.ID, editor.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, err := s.Users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Roles) != 1 || got.Roles[0].Name != "viewer" {
		t.Errorf("roles after remove = %v, want only viewer", got.Roles)
	}

	// removing a role the user no longer holds is not found
	err = s.Users.RemoveRole(ctx, user.ID, editor.ID)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("expected %s, got %v", errors.ErrCodeNotFound, err)
	}
}

func TestRemovePermissionByCodeName(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	user := seedUser(t, s, "judy")
	seedPermission(t, s, "Read users", "read_users")
	seedPermission(t, s, "Create user", "create_user")
	if err := s.Users.AssignPermissions(ctx, user.ID, []string{"read_users", "create_user"}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := s.Users.RemovePermission(ctx, user.ID, "read_users"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, err := s.Users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Permissions) != 1 || got.Permissions[0].CodeName != "create_user" {
		t.Errorf("permissions after remove = %v, want only create_user", got.Permissions)
	}

	err = s.Users.RemovePermission(ctx, user.ID, "no_such_permission")
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("expected %s, got %v", errors.ErrCodeNotFound, err)
	}
}

func TestCountRolesMatchingContainment(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	user := seedUser(t, s, "ivan")
	editor := seedRole(t, s, "editor")
	if err := s.Users.AssignRoles(ctx, user.ID, []uint{editor.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	tests := []struct {
		fragment string
		want     int64
	}{
		{"editor", 1},
		{"edit", 1}, // containment, not equality
		{"editor-in-chief", 0},
		{"admin", 0},
	}
	for _, tt := range tests {
		got, err := s.Users.CountRolesMatching(ctx, user.ID, tt.fragment)
		if err != nil {
			t.Fatalf("CountRolesMatching(%q): %v", tt.fragment, err)
		}
		if got != tt.want {
			t.Errorf("CountRolesMatching(%q) = %d, want %d", tt.fragment, got, tt.want)
		}
	}
}

func TestCountPermissionsMatchingScopedToUser(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	owner := seedUser(t, s, "judy")
	other := seedUser(t, s, "karl")
	seedPermission(t, s, "read_users", "read_users")
	if err := s.Users.AssignPermissions(ctx, owner.ID, []string{"read_users"}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	got, err := s.Users.CountPermissionsMatching(ctx, owner.ID, "read_users")
	if err != nil {
		t.Fatalf("CountPermissionsMatching: %v", err)
	}
	if got != 1 {
		t.Errorf("owner count = %d, want 1", got)
	}

	got, err = s.Users.CountPermissionsMatching(ctx, other.ID, "read_users")
	if err != nil {
		t.Fatalf("CountPermissionsMatching: %v", err)
	}
	if got != 0 {
		t.Errorf("other user count = %d, want 0", got)
	}
}

func TestDeleteUserCascadesMemberships(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	user := seedUser(t, s, "lena")
	editor := seedRole(t, s, "editor")
	if err := s.Users.AssignRoles(ctx, user.ID, []uint{editor.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := s.Users.Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	count, err := s.Users.CountRolesMatching(ctx, user.ID, "editor")
	if err != nil {
		t.Fatalf("CountRolesMatching: %v", err)
	}
	if count != 0 {
		t.Errorf("links after user delete = %d, want 0", count)
	}
}

func TestRoleStoreCRUD(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	role := seedRole(t, s, "moderator")
	if _, err := s.Roles.GetByID(ctx, role.ID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	dup := &model.Role{Name: "moderator"}
	if err := s.Roles.Create(ctx, dup); err == nil {
		t.Error("expected duplicate role name to fail")
	}

	role.Name = "senior-moderator"
	if err := s.Roles.Update(ctx, role); err != nil {
		t.Fatalf("Update: %v", err)
	}

	roles, total, err := s.Roles.List(ctx, "senior", Page{Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(roles) != 1 {
		t.Errorf("filtered list = %d rows (total %d), want 1", len(roles), total)
	}

	if err := s.Roles.Delete(ctx, role.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Roles.GetByID(ctx, role.ID); err == nil {
		t.Error("expected deleted role lookup to fail")
	}
}

func TestPermissionStoreCodeNameUnique(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	seedPermission(t, s, "Read users", "read_users")
	dup := &model.Permission{Name: "Another read", CodeName: "read_users"}
	err := s.Permissions.Create(ctx, dup)
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeAlreadyExists {
		t.Errorf("expected %s, got %v", errors.ErrCodeAlreadyExists, err)
	}

	perm, err := s.Permissions.GetByCodeName(ctx, "read_users")
	if err != nil {
		t.Fatalf("GetByCodeName: %v", err)
	}
	if perm.Name != "Read users" {
		t.Errorf("Name = %s, want Read users", perm.Name)
	}
}

func TestPageNormalize(t *testing.T) {
	page := Page{Page: 0, PerPage: 0}.Normalize(20)
	if page.Page != 1 || page.PerPage != 20 {
		t.Errorf("normalized = %+v, want page 1 per_page 20", page)
	}
	page = Page{Page: 3, PerPage: 500}.Normalize(20)
	if page.PerPage != 100 {
		t.Errorf("per_page = %d, want clamp to 100", page.PerPage)
	}
	if page.Offset() != 200 {
		t.Errorf("offset = %d, want 200", page.Offset())
	}
}
