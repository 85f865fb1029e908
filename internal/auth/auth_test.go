package auth

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, store Store, name, password string, role Role) {
	hash, err := HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, store.SaveUser(&User{Username: name, Password: string(hash), Role: role}))
}

func TestAuthenticate(t *testing.T) {
	requireT := require.New(t)

	store, err := NewFileStore(afero.NewMemMapFs(), "/users.json")
	requireT.NoError(err)
	newUser(t, store, "alice", "secret", RoleOperator)

	a := NewAuthenticator(store)
	u, err := a.Authenticate("alice", "secret")
	requireT.NoError(err)
	requireT.Equal(RoleOperator, u.Role)
	requireT.True(u.CanWrite())
	requireT.False(u.CanReset())

	_, err = a.Authenticate("alice", "wrong")
	requireT.ErrorIs(err, ErrInvalidCredentials)

	_, err = a.Authenticate("bob", "secret")
	requireT.ErrorIs(err, ErrInvalidCredentials)
}

func TestFileStorePersists(t *testing.T) {
	requireT := require.New(t)

	fs := afero.NewMemMapFs()
	store, err := NewFileStore(fs, "/users.json")
	requireT.NoError(err)
	newUser(t, store, "root", "pw", RoleAdmin)
	newUser(t, store, "guest", "pw", RoleViewer)

	store, err = NewFileStore(fs, "/users.json")
	requireT.NoError(err)
	users, err := store.ListUsers()
	requireT.NoError(err)
	requireT.Len(users, 2)
	requireT.Equal("guest", users[0].Username)
	requireT.False(users[0].CanWrite())
	requireT.True(users[1].CanReset())

	requireT.NoError(store.DeleteUser("guest"))
	requireT.ErrorIs(store.DeleteUser("guest"), ErrUserNotFound)

	_, err = store.GetUser("guest")
	requireT.ErrorIs(err, ErrUserNotFound)
}

func TestGetUserReturnsCopy(t *testing.T) {
	requireT := require.New(t)

	store, err := NewFileStore(afero.NewMemMapFs(), "/users.json")
	requireT.NoError(err)
	newUser(t, store, "alice", "pw", RoleViewer)

	u, err := store.GetUser("alice")
	requireT.NoError(err)
	u.Role = RoleAdmin

	u, err = store.GetUser("alice")
	requireT.NoError(err)
	requireT.Equal(RoleViewer, u.Role)
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("admin")
	require.True(t, ok)
	require.Equal(t, RoleAdmin, r)

	_, ok = ParseRole("superuser")
	require.False(t, ok)
}

func TestFailedPersistLeavesCatalogUnchanged(t *testing.T) {
	requireT := require.New(t)

	base := afero.NewMemMapFs()
	store, err := NewFileStore(base, "/users.json")
	requireT.NoError(err)
	newUser(t, store, "alice", "secret", RoleOperator)

	store, err = NewFileStore(afero.NewReadOnlyFs(base), "/users.json")
	requireT.NoError(err)

	requireT.Error(store.SaveUser(&User{Username: "bob", Role: RoleViewer}))
	_, err = store.GetUser("bob")
	requireT.ErrorIs(err, ErrUserNotFound)

	u, err := store.GetUser("alice")
	requireT.NoError(err)
	u.Role = RoleAdmin
	requireT.Error(store.SaveUser(u))
	u, err = store.GetUser("alice")
	requireT.NoError(err)
	requireT.Equal(RoleOperator, u.Role)

	requireT.Error(store.DeleteUser("alice"))
	_, err = store.GetUser("alice")
	requireT.NoError(err)
}
