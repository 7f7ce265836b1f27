package store

import (
	"context"
	"fmt"

	"campus-events/internal/database"
	"campus-events/internal/model"
)

const userColumns = `id, name, email, password_hash, can_post_events, is_admin, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CanPostEvents,
		&u.IsAdmin,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.Querier, userID int) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	))
	if err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", notFound(err))
	}
	return u, nil
}

// GetUserByEmail 以小寫 email 查詢
func GetUserByEmail(ctx context.Context, db database.Querier, email string) (*model.User, error) {
	u, err := scanUser(db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	))
	if err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", notFound(err))
	}
	return u, nil
}

func CreateUser(ctx context.Context, db database.Querier, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, can_post_events, is_admin)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.CanPostEvents,
		u.IsAdmin,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, fmt.Errorf("CreateUser: %w", ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

// SetUserPermissions 更新發文權限；isAdmin 為 nil 時保留原值
func SetUserPermissions(ctx context.Context, db database.Querier, email string, canPostEvents bool, isAdmin *bool) error {
	tag, err := db.Exec(ctx,
		`UPDATE users
		 SET can_post_events = $1, is_admin = COALESCE($2, is_admin)
		 WHERE email = $3`,
		canPostEvents,
		isAdmin,
		email,
	)
	if err != nil {
		return fmt.Errorf("SetUserPermissions: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("SetUserPermissions: %w", ErrNotFound)
	}
	return nil
}
