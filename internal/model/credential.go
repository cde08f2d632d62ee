package model

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// RoleFromUserID maps the leading character of a user id to its role:
// 'a' admin, 'p' patient, 'd' or 'r' doctor.
func RoleFromUserID(userID string) (Role, bool) {
	if userID == "" {
		return "", false
	}
	switch userID[0] {
	case 'a', 'A':
		return RoleAdmin, true
	case 'p', 'P':
		return RolePatient, true
	case 'd', 'D', 'r', 'R':
		return RoleDoctor, true
	default:
		return "", false
	}
}

type Credential struct {
	UserID       string    `db:"user_id" json:"userID"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,max=72"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}
