package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/habitloop/habitloop/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string, withDeleted bool) (*model.User, error)
	ByUsername(username string, withDeleted bool) (*model.User, error)
	ByEmail(email string, withDeleted bool) (*model.User, error)
	UpdatePasswordHash(id, passwordHash string, resetAt *time.Time) error
	SoftDelete(id string) error
	Delete(id string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query, user.ID, user.Username, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		// Unique constraint phrasing differs between SQLite and PostgreSQL
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			if strings.Contains(errStr, "email") {
				return ErrDuplicateEmail
			}
			return ErrDuplicateUsername
		}
		return err
	}

	return nil
}

// byColumn fetches one user; soft-deleted rows are excluded unless withDeleted
// is set. The filter is an explicit parameter on purpose: transparent
// soft-delete interception hides which queries are filtered.
func (r *userRepository) byColumn(column, value string, withDeleted bool) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE ` + column + ` = $1`
	if !withDeleted {
		query += ` AND deleted_at IS NULL`
	}

	err := r.db.Get(user, query, value)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByID(id string, withDeleted bool) (*model.User, error) {
	return r.byColumn("id", id, withDeleted)
}

func (r *userRepository) ByUsername(username string, withDeleted bool) (*model.User, error) {
	return r.byColumn("username", username, withDeleted)
}

func (r *userRepository) ByEmail(email string, withDeleted bool) (*model.User, error) {
	return r.byColumn("email", email, withDeleted)
}

func (r *userRepository) UpdatePasswordHash(id, passwordHash string, resetAt *time.Time) error {
	query := `UPDATE users SET password_hash = $1, last_password_reset_at = $2, updated_at = $3 WHERE id = $4 AND deleted_at IS NULL`

	result, err := r.db.Exec(query, passwordHash, resetAt, time.Now(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) SoftDelete(id string) error {
	now := time.Now()
	query := `UPDATE users SET deleted_at = $1, is_active = FALSE, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) Delete(id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}
