package database

import (
	"context"
	"strings"

	"travelia/internal/models"
)

func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	lock := db.collectionLock(models.CollectionUsers)
	lock.Lock()
	defer lock.Unlock()

	users := []models.User{}
	db.load(models.CollectionUsers, &users)
	return users, nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, _ := db.ListUsers(ctx)
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	users, _ := db.ListUsers(ctx)
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

// CreateUser appends a new user; the email must be unused.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	lock := db.collectionLock(models.CollectionUsers)
	lock.Lock()
	defer lock.Unlock()

	users := []models.User{}
	db.load(models.CollectionUsers, &users)
	for i := range users {
		if strings.EqualFold(users[i].Email, user.Email) {
			return ErrEmailTaken
		}
	}
	users = append(users, *user)
	db.save(models.CollectionUsers, users)
	return nil
}

// UpdateUser applies mutate to the user with the given email and persists
// the collection under the lock.
func (db *DB) UpdateUser(ctx context.Context, email string, mutate func(*models.User)) error {
	lock := db.collectionLock(models.CollectionUsers)
	lock.Lock()
	defer lock.Unlock()

	users := []models.User{}
	db.load(models.CollectionUsers, &users)
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			mutate(&users[i])
			db.save(models.CollectionUsers, users)
			return nil
		}
	}
	return ErrUserNotFound
}

func (db *DB) DeleteUser(ctx context.Context, idUser string) error {
	lock := db.collectionLock(models.CollectionUsers)
	lock.Lock()
	defer lock.Unlock()

	users := []models.User{}
	db.load(models.CollectionUsers, &users)

	filtered := users[:0]
	for _, u := range users {
		if u.IDUser != idUser {
			filtered = append(filtered, u)
		}
	}
	if len(filtered) == len(users) {
		return ErrUserNotFound
	}
	db.save(models.CollectionUsers, filtered)
	return nil
}

func (db *DB) GetAdmin(ctx context.Context, username string) (*models.Admin, error) {
	lock := db.collectionLock(models.CollectionAdmins)
	lock.Lock()
	defer lock.Unlock()

	admins := []models.Admin{}
	db.load(models.CollectionAdmins, &admins)
	for i := range admins {
		if admins[i].Username == username {
			return &admins[i], nil
		}
	}
	return nil, ErrAdminNotFound
}

func (db *DB) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	lock := db.collectionLock(models.CollectionAdmins)
	lock.Lock()
	defer lock.Unlock()

	admins := []models.Admin{}
	db.load(models.CollectionAdmins, &admins)
	for i := range admins {
		if admins[i].Username == admin.Username {
			return ErrAdminExists
		}
	}
	admins = append(admins, *admin)
	db.save(models.CollectionAdmins, admins)
	return nil
}
