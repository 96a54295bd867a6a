package models

import "time"

type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RolePlayer MemberRole = "player"
)

type Member struct {
	ID           int        `json:"id"`
	DisplayName  string     `json:"display_name"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	Role         MemberRole `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
}
