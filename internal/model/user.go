// File: internal/model/user.go
package model

import "time"

type User struct {
	ID            int       `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	CanPostEvents bool      `db:"can_post_events" json:"canPostEvents"`
	IsAdmin       bool      `db:"is_admin" json:"isAdmin"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
