package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"campus-events/internal/database"
	"campus-events/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func userRow(u model.User) valueRow {
	return valueRow{vals: []any{u.ID, u.Name, u.Email, u.PasswordHash, u.CanPostEvents, u.IsAdmin, u.CreatedAt}}
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	want := model.User{ID: 7, Name: "Ann", Email: "ann@x.edu", PasswordHash: "h", CanPostEvents: true, CreatedAt: time.Unix(10, 0)}

	var gotSQL string
	var gotArgs []any
	db := &database.FakeDB{
		QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			gotSQL, gotArgs = sql, args
			return userRow(want)
		},
	}

	u, err := GetUserByID(ctx, db, 7)
	require.NoError(t, err)
	require.Equal(t, want, *u)
	require.Contains(t, gotSQL, "WHERE id = $1")
	require.Equal(t, []any{7}, gotArgs)

	u, err = GetUserByEmail(ctx, db, "ann@x.edu")
	require.NoError(t, err)
	require.Equal(t, "Ann", u.Name)
	require.Contains(t, gotSQL, "WHERE email = $1")

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row { return valueRow{err: pgx.ErrNoRows} }
	_, err = GetUserByID(ctx, db, 1)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = GetUserByEmail(ctx, db, "nobody@x.edu")
	require.ErrorIs(t, err, ErrNotFound)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row { return valueRow{err: errors.New("boom")} }
	_, err = GetUserByID(ctx, db, 1)
	require.EqualError(t, err, "GetUserByID: boom")
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(100, 0)
	db := &database.FakeDB{
		QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			require.True(t, strings.Contains(sql, "INSERT INTO users"))
			require.Equal(t, []any{"Ann", "ann@x.edu", "hash", false, false}, args)
			return valueRow{vals: []any{3, now}}
		},
	}
	u, err := CreateUser(ctx, db, &model.User{Name: "Ann", Email: "ann@x.edu", PasswordHash: "hash"})
	require.NoError(t, err)
	require.Equal(t, 3, u.ID)
	require.Equal(t, now, u.CreatedAt)
	require.False(t, u.CanPostEvents)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row {
		return valueRow{err: &pgconn.PgError{Code: pgUniqueViolation}}
	}
	_, err = CreateUser(ctx, db, &model.User{Email: "ann@x.edu"})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	db.QueryRowFn = func(context.Context, string, ...any) pgx.Row { return valueRow{err: errors.New("down")} }
	_, err = CreateUser(ctx, db, &model.User{})
	require.EqualError(t, err, "CreateUser: down")
}

func TestSetUserPermissions(t *testing.T) {
	ctx := context.Background()
	admin := true
	var gotArgs []any
	db := &database.FakeDB{
		ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
			gotArgs = args
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}
	require.NoError(t, SetUserPermissions(ctx, db, "ann@x.edu", true, &admin))
	require.Equal(t, []any{true, &admin, "ann@x.edu"}, gotArgs)

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}
	require.ErrorIs(t, SetUserPermissions(ctx, db, "ghost@x.edu", true, nil), ErrNotFound)

	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, errors.New("down")
	}
	require.EqualError(t, SetUserPermissions(ctx, db, "a@x.edu", false, nil), "SetUserPermissions: down")
}
