package model

import (
	"time"
)

type User struct {
	ID                  string     `db:"id"`
	Username            string     `db:"username"`
	Email               string     `db:"email"`
	PasswordHash        string     `db:"password_hash"`
	LastPasswordResetAt *time.Time `db:"last_password_reset_at"`
	IsActive            bool       `db:"is_active"`
	DeletedAt           *time.Time `db:"deleted_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}
