package services

import (
	"errors"
	"testing"

	"langtouch/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeUserLookup struct{ users map[uuid.UUID]*models.User }

func (f *fakeUserLookup) GetByID(id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRoleStore struct {
	roles   map[uuid.UUID]*models.Role
	touches map[[2]uuid.UUID]int
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{
		roles:   make(map[uuid.UUID]*models.Role),
		touches: make(map[[2]uuid.UUID]int),
	}
}

func (f *fakeRoleStore) addRole(name string) *models.Role {
	r := &models.Role{Name: name}
	r.ID = uuid.New()
	f.roles[r.ID] = r
	return r
}

func (f *fakeRoleStore) GetOrCreateByName(name string) (*models.Role, error) {
	for _, r := range f.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return f.addRole(name), nil
}

func (f *fakeRoleStore) GetByID(id uuid.UUID) (*models.Role, error) {
	if r, ok := f.roles[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRoleStore) List() ([]models.Role, error) {
	var out []models.Role
	for _, r := range f.roles {
		out = append(out, *r)
	}
	return out, nil
}

// Assign mirrors the repository upsert: a repeated pair touches the existing
// row instead of inserting a second one.
func (f *fakeRoleStore) Assign(userID, roleID uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{userID, roleID}
	f.touches[key]++
	return f.touches[key] == 1, nil
}

func TestAssignTwiceKeepsOneAssignment(t *testing.T) {
	user := &models.User{Username: "amina"}
	user.ID = uuid.New()
	users := &fakeUserLookup{users: map[uuid.UUID]*models.User{user.ID: user}}

	roles := newFakeRoleStore()
	role := roles.addRole("Translator")

	svc := NewRoleService(users, roles)

	created, gotUser, gotRole, err := svc.Assign(user.ID.String(), role.ID.String())
	if err != nil {
		t.Fatalf("first Assign: %v", err)
	}
	if !created {
		t.Error("first assignment should report created")
	}
	if gotUser.ID != user.ID || gotRole.ID != role.ID {
		t.Errorf("resolved pair = (%s, %s), want (%s, %s)", gotUser.ID, gotRole.ID, user.ID, role.ID)
	}

	created, _, _, err = svc.Assign(user.ID.String(), role.ID.String())
	if err != nil {
		t.Fatalf("second Assign: %v", err)
	}
	if created {
		t.Error("repeated assignment should not report created")
	}

	if len(roles.touches) != 1 {
		t.Errorf("store holds %d assignment rows, want 1", len(roles.touches))
	}
	if n := roles.touches[[2]uuid.UUID{user.ID, role.ID}]; n != 2 {
		t.Errorf("existing row touched %d times, want 2", n)
	}
}

func TestAssignErrors(t *testing.T) {
	user := &models.User{Username: "amina"}
	user.ID = uuid.New()
	users := &fakeUserLookup{users: map[uuid.UUID]*models.User{user.ID: user}}

	roles := newFakeRoleStore()
	role := roles.addRole("Translator")

	svc := NewRoleService(users, roles)

	tests := []struct {
		name    string
		userID  string
		roleID  string
		wantErr error
	}{
		{"malformed user id", "not-a-uuid", role.ID.String(), ErrInvalidID},
		{"malformed role id", user.ID.String(), "not-a-uuid", ErrInvalidID},
		{"unknown user", uuid.New().String(), role.ID.String(), ErrUserNotFound},
		{"unknown role", user.ID.String(), uuid.New().String(), ErrRoleNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := svc.Assign(tt.userID, tt.roleID)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Assign() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAssignDefault(t *testing.T) {
	user := &models.User{Username: "amina"}
	user.ID = uuid.New()
	users := &fakeUserLookup{users: map[uuid.UUID]*models.User{user.ID: user}}
	roles := newFakeRoleStore()

	svc := NewRoleService(users, roles)

	if err := svc.AssignDefault(user.ID); err != nil {
		t.Fatalf("AssignDefault: %v", err)
	}

	client, err := roles.GetOrCreateByName(DefaultRoleName)
	if err != nil {
		t.Fatalf("GetOrCreateByName: %v", err)
	}
	if n := roles.touches[[2]uuid.UUID{user.ID, client.ID}]; n != 1 {
		t.Errorf("default role assigned %d times, want 1", n)
	}
}
