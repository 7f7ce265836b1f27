package store

import (
	"context"
	"fmt"

	"campus-events/internal/database"
	"campus-events/internal/model"
)

func ListTags(ctx context.Context, db database.Querier) ([]model.Tag, error) {
	rows, err := db.Query(ctx, `SELECT tag_id, name FROM tags ORDER BY tag_id`)
	if err != nil {
		return nil, fmt.Errorf("ListTags: %w", err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.TagID, &t.Name); err != nil {
			return nil, fmt.Errorf("ListTags: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTags: %w", err)
	}
	return tags, nil
}

func CreateTag(ctx context.Context, db database.Querier, name string) (*model.Tag, error) {
	t := &model.Tag{Name: name}
	err := db.QueryRow(ctx,
		`INSERT INTO tags (name) VALUES ($1) RETURNING tag_id`,
		name,
	).Scan(&t.TagID)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, fmt.Errorf("CreateTag: %w", ErrDuplicateTag)
		}
		return nil, fmt.Errorf("CreateTag: %w", err)
	}
	return t, nil
}
