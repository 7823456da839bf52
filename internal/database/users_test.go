package database

import (
	"context"
	"errors"
	"testing"

	"travelia/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := &models.User{
		IDUser:   "1700000000000",
		Name:     "Andi Pratama",
		Email:    "andi@example.com",
		Username: "andi",
	}
	require.NoError(t, db.CreateUser(ctx, user))

	got, err := db.GetUserByEmail(ctx, "ANDI@example.com")
	require.NoError(t, err)
	assert.Equal(t, "andi", got.Username)

	got, err = db.GetUserByUsername(ctx, "andi")
	require.NoError(t, err)
	assert.Equal(t, "andi@example.com", got.Email)

	_, err = db.GetUserByEmail(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateUser(ctx, &models.User{Email: "andi@example.com"}))

	err := db.CreateUser(ctx, &models.User{Email: "Andi@Example.com"})
	assert.True(t, errors.Is(err, ErrEmailTaken))
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateUser(ctx, &models.User{Email: "andi@example.com", Name: "Andi"}))

	err := db.UpdateUser(ctx, "andi@example.com", func(u *models.User) {
		u.Name = "Andi Pratama"
		u.Phone = "081234567890"
	})
	require.NoError(t, err)

	got, err := db.GetUserByEmail(ctx, "andi@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Andi Pratama", got.Name)
	assert.Equal(t, "081234567890", got.Phone)

	err = db.UpdateUser(ctx, "nobody@example.com", func(*models.User) {})
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateUser(ctx, &models.User{IDUser: "1", Email: "a@example.com"}))
	require.NoError(t, db.CreateUser(ctx, &models.User{IDUser: "2", Email: "b@example.com"}))

	require.NoError(t, db.DeleteUser(ctx, "1"))

	users, err := db.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "2", users[0].IDUser)

	err = db.DeleteUser(ctx, "1")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestCreateAndGetAdmin(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.CreateAdmin(ctx, &models.Admin{Username: "admin", Password: "hash"}))

	got, err := db.GetAdmin(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "hash", got.Password)

	err = db.CreateAdmin(ctx, &models.Admin{Username: "admin"})
	assert.True(t, errors.Is(err, ErrAdminExists))

	_, err = db.GetAdmin(ctx, "root")
	assert.True(t, errors.Is(err, ErrAdminNotFound))
}
