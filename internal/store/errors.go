package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateTag   = errors.New("tag already exists")
	ErrUnknownTag     = errors.New("unknown tag")
	// ErrNotPermitted: 使用者不存在或目前 can_post_events = false
	ErrNotPermitted = errors.New("user may not post events")
	// ErrForbidden: 編輯者既不是建立者也不是管理員
	ErrForbidden = errors.New("not the event owner")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// notFound 把 pgx.ErrNoRows 轉成 ErrNotFound，其餘錯誤原樣回傳
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
