// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carterperez-dev/courseware/internal/core"
)

type fakeRepo struct {
	users         map[string]*User
	tokenBumps    map[string]int
	deactivated   int64
	lastCutoff    time.Time
	deactivateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:      make(map[string]*User),
		tokenBumps: make(map[string]int),
	}
}

func (f *fakeRepo) Create(_ context.Context, user *User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return core.ErrDuplicateKey
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) Update(_ context.Context, user *User) error {
	if _, ok := f.users[user.ID]; !ok {
		return core.ErrNotFound
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeRepo) IncrementTokenVersion(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.TokenVersion++
	f.tokenBumps[id]++
	return nil
}

func (f *fakeRepo) TouchLastLogin(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	return nil
}

func (f *fakeRepo) List(
	_ context.Context,
	_ ListUsersParams,
) ([]User, int, error) {
	out := make([]User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeRepo) DeactivateInactive(
	_ context.Context,
	cutoff time.Time,
) (int64, error) {
	if f.deactivateErr != nil {
		return 0, f.deactivateErr
	}
	f.lastCutoff = cutoff
	return f.deactivated, nil
}

func seedUser(repo *fakeRepo, id, role string) *User {
	u := &User{
		ID:       id,
		Email:    id + "@example.com",
		Name:     id,
		Role:     role,
		IsActive: true,
	}
	repo.users[id] = u
	return u
}

func TestCreateNormalizesEmailAndDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	info, err := svc.Create(
		context.Background(),
		"Alice@Example.COM",
		"hash",
		"Alice",
	)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if info.Email != "alice@example.com" {
		t.Fatalf("email = %q, want lowercased", info.Email)
	}
	if info.Role != RoleMember {
		t.Fatalf("role = %q, want %q", info.Role, RoleMember)
	}
	if !info.IsActive {
		t.Fatal("new accounts should start active")
	}
}

func TestUpdateUserRoleBumpsTokenVersion(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	seedUser(repo, "u1", RoleMember)

	updated, err := svc.UpdateUserRole(context.Background(), "u1", RoleModerator)
	if err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	if updated.Role != RoleModerator {
		t.Fatalf("role = %q, want %q", updated.Role, RoleModerator)
	}
	if repo.tokenBumps["u1"] != 1 {
		t.Fatalf("token bumps = %d, want 1", repo.tokenBumps["u1"])
	}
}

func TestUpdateUserRoleSameRoleIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	seedUser(repo, "u1", RoleMember)

	if _, err := svc.UpdateUserRole(
		context.Background(),
		"u1",
		RoleMember,
	); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	if repo.tokenBumps["u1"] != 0 {
		t.Fatal("no-op role change should not invalidate sessions")
	}
}

func TestUpdateUserRoleRejectsUnknownRole(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	seedUser(repo, "u1", RoleMember)

	_, err := svc.UpdateUserRole(context.Background(), "u1", "admin")
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCanDeleteUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	seedUser(repo, "member1", RoleMember)
	seedUser(repo, "member2", RoleMember)
	seedUser(repo, "mod1", RoleModerator)
	seedUser(repo, "mod2", RoleModerator)

	tests := []struct {
		name      string
		requester string
		target    string
		wantErr   error
	}{
		{"self delete", "member1", "member1", nil},
		{"member deleting other member", "member1", "member2", core.ErrForbidden},
		{"moderator deleting member", "mod1", "member1", nil},
		{"moderator deleting moderator", "mod1", "mod2", core.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CanDeleteUser(
				context.Background(),
				tt.requester,
				tt.target,
			)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("CanDeleteUser: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateMeRequiresIdentity(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.UpdateMe(context.Background(), "", UpdateUserRequest{})
	if !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestDeactivateInactivePassesCutoff(t *testing.T) {
	repo := newFakeRepo()
	repo.deactivated = 3
	svc := NewService(repo)

	cutoff := time.Now().Add(-30 * 24 * time.Hour)
	n, err := svc.DeactivateInactive(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("DeactivateInactive: %v", err)
	}
	if n != 3 {
		t.Fatalf("deactivated = %d, want 3", n)
	}
	if !repo.lastCutoff.Equal(cutoff) {
		t.Fatalf("cutoff = %v, want %v", repo.lastCutoff, cutoff)
	}
}
