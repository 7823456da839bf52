package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"travelia/internal/database"
	"travelia/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// ErrWrongPassword is returned when credentials resolve to a user but
// the password does not match.
var ErrWrongPassword = errors.New("wrong password")

const bcryptCost = 10

// UserStore is the slice of the repository the user service needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, email string, mutate func(*models.User)) error
	DeleteUser(ctx context.Context, idUser string) error
	GetAdmin(ctx context.Context, username string) (*models.Admin, error)
	CreateAdmin(ctx context.Context, admin *models.Admin) error
}

type UserService struct {
	store  UserStore
	logger *zerolog.Logger
}

func NewUserService(store UserStore, logger *zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// Register creates an account. The email doubles as the username; the
// id carries the last five digits of the registration timestamp, the
// format the frontends already parse.
func (s *UserService) Register(ctx context.Context, name, email, password, photo string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	ms := strconv.FormatInt(time.Now().UnixMilli(), 10)
	user := &models.User{
		IDUser:   "USR" + ms[len(ms)-5:],
		Name:     name,
		Email:    email,
		Username: email,
		Password: string(hash),
		Photo:    photo,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("email", email).Str("id_user", user.IDUser).Msg("User registered")
	redacted := user.Redacted()
	return &redacted, nil
}

// Login verifies email/password and returns the user with the password
// masked.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	redacted := user.Redacted()
	return &redacted, nil
}

// AdminLogin checks the plain credential pair stored in the admins
// collection. Admin passwords are stored as provided, matching the data
// already on disk.
func (s *UserService) AdminLogin(ctx context.Context, username, password string) error {
	admin, err := s.store.GetAdmin(ctx, username)
	if err != nil {
		return err
	}
	if admin.Password != password {
		return ErrWrongPassword
	}
	return nil
}

func (s *UserService) AdminRegister(ctx context.Context, username, password string) error {
	return s.store.CreateAdmin(ctx, &models.Admin{Username: username, Password: password})
}

func (s *UserService) Profile(ctx context.Context, username string) (*models.User, error) {
	return s.store.GetUserByUsername(ctx, username)
}

// ProfileUpdate holds optional field overrides; empty strings leave the
// stored value untouched.
type ProfileUpdate struct {
	Phone   string
	Address string
	Birth   string
	Gender  string
	Photo   string
}

func (s *UserService) UpdateProfile(ctx context.Context, email string, update ProfileUpdate) error {
	return s.store.UpdateUser(ctx, email, func(u *models.User) {
		if update.Phone != "" {
			u.Phone = update.Phone
		}
		if update.Address != "" {
			u.Address = update.Address
		}
		if update.Birth != "" {
			u.Birth = update.Birth
		}
		if update.Gender != "" {
			u.Gender = update.Gender
		}
		if update.Photo != "" {
			u.Photo = update.Photo
		}
	})
}

// ListUsers returns all accounts with passwords masked.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Redacted()
	}
	return out, nil
}

func (s *UserService) DeleteUser(ctx context.Context, idUser string) error {
	if err := s.store.DeleteUser(ctx, idUser); err != nil {
		return err
	}
	s.logger.Info().Str("id_user", idUser).Msg("User deleted")
	return nil
}

var _ UserStore = (*database.DB)(nil)
