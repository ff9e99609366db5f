package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleMentee Role = "mentee"
	RoleMentor Role = "mentor"
	RoleAdmin  Role = "admin"
)

// Profile is a platform account. Roles are assigned outside the admin
// console; the console reads profiles but never changes their role.
type Profile struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func (p Profile) RecordID() string { return p.ID.String() }

func (p Profile) Columns() []string {
	return []string{"id", "email", "role", "created_at", "updated_at"}
}

func (p Profile) Values() []any {
	return []any{p.ID.String(), p.Email, string(p.Role), p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339)}
}

type SignUpReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ProfileRes struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

type TokenRes struct {
	AccessToken string     `json:"access_token"`
	ExpiresAt   int64      `json:"expires_at"` // unix seconds
	User        ProfileRes `json:"user"`
}
