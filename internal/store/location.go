package store

import (
	"context"
	"errors"
	"fmt"

	"campus-events/internal/database"
	"campus-events/internal/model"

	"github.com/jackc/pgx/v5"
)

func ListLocations(ctx context.Context, db database.Querier) ([]model.Location, error) {
	rows, err := db.Query(ctx, `SELECT id, address, floor, room, loc_note FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListLocations: %w", err)
	}
	defer rows.Close()

	locs := []model.Location{}
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Address, &l.Floor, &l.Room, &l.LocNote); err != nil {
			return nil, fmt.Errorf("ListLocations: %w", err)
		}
		locs = append(locs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListLocations: %w", err)
	}
	return locs, nil
}

// findOrCreateLocation 以四個欄位完全相同為條件重用既有地點，否則新增。
// 必須在交易內呼叫：advisory lock 會持有到交易結束，避免同時建立重複地點。
func findOrCreateLocation(ctx context.Context, tx database.Querier, l model.Location) (int, error) {
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1 || '|' || $2 || '|' || $3))`,
		l.Address, l.Floor, l.Room,
	); err != nil {
		return 0, fmt.Errorf("lock location: %w", err)
	}

	var id int
	err := tx.QueryRow(ctx,
		`SELECT id FROM locations
		 WHERE address = $1 AND floor = $2 AND room = $3 AND loc_note IS NOT DISTINCT FROM $4
		 ORDER BY id LIMIT 1`,
		l.Address, l.Floor, l.Room, l.LocNote,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("find location: %w", err)
	}

	if err := tx.QueryRow(ctx,
		`INSERT INTO locations (address, floor, room, loc_note)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		l.Address, l.Floor, l.Room, l.LocNote,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("create location: %w", err)
	}
	return id, nil
}
