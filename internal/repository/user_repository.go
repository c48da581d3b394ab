package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/utils"
)

const userColumns = "id, user_name, first_name, last_name, email, password_hash, is_active, created_at"

// UserRepo is the credential store. The bcrypt cost is fixed at
// construction from configuration.
type UserRepo struct {
	DB         *sqlx.DB
	bcryptCost int
}

func NewUserRepo(db *sqlx.DB, bcryptCost int) *UserRepo {
	return &UserRepo{DB: db, bcryptCost: bcryptCost}
}

// Create hashes the password, inserts the user and returns the stored row.
func (r *UserRepo) Create(ctx context.Context, in model.NewUser) (model.User, error) {
	hash, err := utils.HashPassword(in.Password, r.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return model.User{}, ErrPasswordTooLong
		}
		return model.User{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (user_name, first_name, last_name, email, password_hash, is_active) VALUES (?,?,?,?,?,true)",
		in.UserName, in.FirstName, in.LastName, strings.ToLower(strings.TrimSpace(in.Email)), hash)
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, ErrUsernameTaken
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Authenticate returns the active user matching userName and password.
func (r *UserRepo) Authenticate(ctx context.Context, userName, password string) (model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u,
		"SELECT "+userColumns+" FROM users WHERE user_name=? AND is_active=true LIMIT 1", userName)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID fetches an active user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u,
		"SELECT "+userColumns+" FROM users WHERE id=? AND is_active=true LIMIT 1", id)
	return u, notFound(err)
}

// GetByUserName fetches an active user by user name.
func (r *UserRepo) GetByUserName(ctx context.Context, userName string) (model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u,
		"SELECT "+userColumns+" FROM users WHERE user_name=? AND is_active=true LIMIT 1", userName)
	return u, notFound(err)
}
