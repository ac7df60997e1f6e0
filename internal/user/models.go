package user

import (
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID             int64      `json:"id"`
	APIKey         string     `json:"-"`
	PlayerID       *int64     `json:"player_id"`
	AllianceID     *int64     `json:"alliance_id"`
	Language       string     `json:"language"`
	Role           Role       `json:"role"`
	LastActivityAt *time.Time `json:"last_activity_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ListEntry is the administrative listing row; the api key is deliberately
// not part of it.
type ListEntry struct {
	ID             int64      `json:"id"`
	PlayerID       *int64     `json:"player_id"`
	AllianceID     *int64     `json:"alliance_id"`
	Language       string     `json:"language"`
	Role           Role       `json:"role"`
	LastActivityAt *time.Time `json:"last_activity_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	PlayerName     *string    `json:"player_name"`
	AllianceName   *string    `json:"alliance_name"`
}

// MaskAPIKey renders a key safe for logs, keeping just enough to correlate.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
