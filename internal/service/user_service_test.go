package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"travelia/internal/database"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *database.DB) {
	t.Helper()
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(t.TempDir(), &logger)
	require.NoError(t, err)
	return NewUserService(db, &logger), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Andi Pratama", "andi@example.com", "rahasia123", "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(user.IDUser, "USR"))
	assert.Len(t, user.IDUser, 8)
	assert.Equal(t, "andi@example.com", user.Username, "username mirrors email")
	assert.Equal(t, "••••••••", user.Password)

	// Stored password must be a hash, never the plaintext.
	stored, err := db.GetUserByEmail(ctx, "andi@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "rahasia123", stored.Password)
	assert.True(t, strings.HasPrefix(stored.Password, "$2a$"))

	logged, err := svc.Login(ctx, "andi@example.com", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, "Andi Pratama", logged.Name)
	assert.Equal(t, "••••••••", logged.Password)

	_, err = svc.Login(ctx, "andi@example.com", "salah")
	assert.True(t, errors.Is(err, ErrWrongPassword))

	_, err = svc.Login(ctx, "nobody@example.com", "x")
	assert.True(t, errors.Is(err, database.ErrUserNotFound))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Andi", "andi@example.com", "pw", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Andi Lagi", "andi@example.com", "pw", "")
	assert.True(t, errors.Is(err, database.ErrEmailTaken))
}

func TestAdminLogin(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	require.NoError(t, svc.AdminRegister(ctx, "admin", "sandi"))

	assert.NoError(t, svc.AdminLogin(ctx, "admin", "sandi"))
	assert.True(t, errors.Is(svc.AdminLogin(ctx, "admin", "salah"), ErrWrongPassword))
	assert.True(t, errors.Is(svc.AdminLogin(ctx, "root", "sandi"), database.ErrAdminNotFound))

	err := svc.AdminRegister(ctx, "admin", "lain")
	assert.True(t, errors.Is(err, database.ErrAdminExists))
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Andi", "andi@example.com", "pw", "")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateProfile(ctx, "andi@example.com", ProfileUpdate{
		Phone:  "081234567890",
		Gender: "L",
	}))

	profile, err := svc.Profile(ctx, "andi@example.com")
	require.NoError(t, err)
	assert.Equal(t, "081234567890", profile.Phone)
	assert.Equal(t, "L", profile.Gender)

	// Empty update fields leave stored values intact.
	require.NoError(t, svc.UpdateProfile(ctx, "andi@example.com", ProfileUpdate{Address: "Jl. Merdeka 1"}))
	profile, err = svc.Profile(ctx, "andi@example.com")
	require.NoError(t, err)
	assert.Equal(t, "081234567890", profile.Phone)
	assert.Equal(t, "Jl. Merdeka 1", profile.Address)

	err = svc.UpdateProfile(ctx, "nobody@example.com", ProfileUpdate{})
	assert.True(t, errors.Is(err, database.ErrUserNotFound))
}

func TestListUsersMasksPasswords(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Andi", "andi@example.com", "pw", "")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Budi", "budi@example.com", "pw", "")
	require.NoError(t, err)

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, "••••••••", u.Password)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, db := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Andi", "andi@example.com", "pw", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, user.IDUser))

	_, err = db.GetUserByEmail(ctx, "andi@example.com")
	assert.True(t, errors.Is(err, database.ErrUserNotFound))
}
