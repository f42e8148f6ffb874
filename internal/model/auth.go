package model

import "time"

// Role distinguishes the two access levels of the shared-password gate.
// There are no per-user accounts.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleStaff
}

type LoginRequest struct {
	Role     string `json:"role" validate:"required,oneof=student staff"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
