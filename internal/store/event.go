// File: internal/store/event.go
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-events/internal/database"
	"campus-events/internal/model"

	"github.com/jackc/pgx/v5"
)

var timeNow = time.Now

// Sort directions for ListActiveEvents.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// EventFilter 對應前端列表的篩選條件，零值代表不篩選
type EventFilter struct {
	Tag  string
	Sort string
}

type NewEvent struct {
	Description string
	Qty         int
	ExpTime     time.Time
	TagIDs      []int
	Photos      []string
	Location    *model.Location
}

// EventEdit 取代事件的純量欄位與整組標籤；Location 為 nil 時不動地點，Photo 為空時不新增照片
type EventEdit struct {
	Description string
	Qty         int
	ExpTime     time.Time
	TagIDs      []int
	Location    *model.Location
	Photo       string
	Done        *bool
}

// Editor 是發出編輯請求的身分
type Editor struct {
	UserID  int
	IsAdmin bool
}

const eventSelect = `
SELECT e.event_id, e.description, e.qty, e.post_time, e.exp_time, e.done, e.created_by_id, e.location_id,
       u.name,
       l.id, l.address, l.floor, l.room, l.loc_note,
       COALESCE((SELECT json_agg(json_build_object('tag_id', t.tag_id, 'name', t.name) ORDER BY t.tag_id)
                   FROM event_tags et JOIN tags t ON t.tag_id = et.tag_id
                  WHERE et.event_id = e.event_id), '[]'::json),
       COALESCE((SELECT json_agg(json_build_object('id', p.id, 'photo', p.photo, 'event_id', p.event_id) ORDER BY p.id)
                   FROM photos p
                  WHERE p.event_id = e.event_id), '[]'::json)
  FROM events e
  JOIN users u ON u.id = e.created_by_id
  LEFT JOIN locations l ON l.id = e.location_id`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	e := &model.Event{}
	var (
		locID                    *int
		locAddr, locFloor, locRm *string
		locNote                  *string
	)
	if err := row.Scan(
		&e.EventID,
		&e.Description,
		&e.Qty,
		&e.PostTime,
		&e.ExpTime,
		&e.Done,
		&e.CreatedByID,
		&e.LocationID,
		&e.CreatedBy.Name,
		&locID,
		&locAddr,
		&locFloor,
		&locRm,
		&locNote,
		&e.Tags,
		&e.Photos,
	); err != nil {
		return nil, err
	}
	if locID != nil {
		e.Location = &model.Location{ID: *locID, LocNote: locNote}
		if locAddr != nil {
			e.Location.Address = *locAddr
		}
		if locFloor != nil {
			e.Location.Floor = *locFloor
		}
		if locRm != nil {
			e.Location.Room = *locRm
		}
	}
	if e.Tags == nil {
		e.Tags = []model.Tag{}
	}
	if e.Photos == nil {
		e.Photos = []model.Photo{}
	}
	return e, nil
}

func queryEvents(ctx context.Context, db database.Querier, sql string, args ...any) ([]model.Event, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func GetEventByID(ctx context.Context, db database.Querier, id int) (*model.Event, error) {
	e, err := scanEvent(db.QueryRow(ctx, eventSelect+` WHERE e.event_id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("GetEventByID: %w", notFound(err))
	}
	return e, nil
}

// ListActiveEvents 回傳 exp_time > now 且尚未完成的活動
func ListActiveEvents(ctx context.Context, db database.Querier, now time.Time, f EventFilter) ([]model.Event, error) {
	where := []string{`e.exp_time > $1`, `e.done = FALSE`}
	args := []any{now}
	if f.Tag != "" {
		args = append(args, f.Tag)
		where = append(where, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM event_tags et JOIN tags t ON t.tag_id = et.tag_id
			          WHERE et.event_id = e.event_id AND t.name = $%d)`, len(args)))
	}

	order := `e.event_id`
	switch f.Sort {
	case "":
	case SortAsc:
		order = `e.exp_time ASC, e.event_id`
	case SortDesc:
		order = `e.exp_time DESC, e.event_id`
	default:
		return nil, fmt.Errorf("ListActiveEvents: unknown sort %q", f.Sort)
	}

	sql := eventSelect + ` WHERE ` + strings.Join(where, ` AND `) + ` ORDER BY ` + order
	events, err := queryEvents(ctx, db, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ListActiveEvents: %w", err)
	}
	return events, nil
}

func ListEventsForUser(ctx context.Context, db database.Querier, userID int) ([]model.Event, error) {
	events, err := queryEvents(ctx, db, eventSelect+` WHERE e.created_by_id = $1 ORDER BY e.event_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListEventsForUser: %w", err)
	}
	return events, nil
}

// CreateEvent 在單一交易內：確認作者目前仍可發文、找出或建立地點、
// 新增活動、連結標籤與照片。
func CreateEvent(ctx context.Context, db database.DB, authorID int, in NewEvent) (*model.Event, error) {
	var created *model.Event
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		var canPost bool
		err := tx.QueryRow(ctx,
			`SELECT can_post_events FROM users WHERE id = $1 FOR SHARE`,
			authorID,
		).Scan(&canPost)
		if errors.Is(err, pgx.ErrNoRows) || (err == nil && !canPost) {
			return ErrNotPermitted
		}
		if err != nil {
			return err
		}

		var locationID *int
		if in.Location != nil {
			id, err := findOrCreateLocation(ctx, tx, *in.Location)
			if err != nil {
				return err
			}
			locationID = &id
		}

		var eventID int
		if err := tx.QueryRow(ctx,
			`INSERT INTO events (description, qty, post_time, exp_time, done, created_by_id, location_id)
			 VALUES ($1, $2, $3, $4, FALSE, $5, $6)
			 RETURNING event_id`,
			in.Description,
			in.Qty,
			timeNow().UTC(),
			in.ExpTime,
			authorID,
			locationID,
		).Scan(&eventID); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}

		if err := linkTags(ctx, tx, eventID, in.TagIDs); err != nil {
			return err
		}
		if len(in.Photos) > 0 {
			if _, err := tx.Exec(ctx,
				`INSERT INTO photos (photo, event_id) SELECT unnest($1::text[]), $2`,
				in.Photos, eventID,
			); err != nil {
				return fmt.Errorf("insert photos: %w", err)
			}
		}

		created, err = scanEvent(tx.QueryRow(ctx, eventSelect+` WHERE e.event_id = $1`, eventID))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("CreateEvent: %w", err)
	}
	return created, nil
}

// EditEvent 取代純量欄位與整組標籤、就地更新地點欄位，必要時附加一張照片。
// 沒有樂觀鎖，後寫入者覆蓋先寫入者。
func EditEvent(ctx context.Context, db database.DB, id int, editor Editor, in EventEdit) (*model.Event, error) {
	var updated *model.Event
	err := pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		var (
			ownerID    int
			locationID *int
		)
		err := tx.QueryRow(ctx,
			`SELECT created_by_id, location_id FROM events WHERE event_id = $1 FOR UPDATE`,
			id,
		).Scan(&ownerID, &locationID)
		if err != nil {
			return notFound(err)
		}
		if ownerID != editor.UserID && !editor.IsAdmin {
			return ErrForbidden
		}

		if _, err := tx.Exec(ctx,
			`UPDATE events
			 SET description = $1, qty = $2, exp_time = $3, done = COALESCE($4, done), updated_at = now()
			 WHERE event_id = $5`,
			in.Description, in.Qty, in.ExpTime, in.Done, id,
		); err != nil {
			return fmt.Errorf("update event: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM event_tags WHERE event_id = $1`, id); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		if err := linkTags(ctx, tx, id, in.TagIDs); err != nil {
			return err
		}

		if l := in.Location; l != nil {
			if locationID != nil {
				// 地點可能被其他活動共用，這裡照原本行為就地更新
				if _, err := tx.Exec(ctx,
					`UPDATE locations SET address = $1, floor = $2, room = $3, loc_note = $4 WHERE id = $5`,
					l.Address, l.Floor, l.Room, l.LocNote, *locationID,
				); err != nil {
					return fmt.Errorf("update location: %w", err)
				}
			} else {
				locID, err := findOrCreateLocation(ctx, tx, *l)
				if err != nil {
					return err
				}
				if _, err := tx.Exec(ctx,
					`UPDATE events SET location_id = $1 WHERE event_id = $2`,
					locID, id,
				); err != nil {
					return fmt.Errorf("link location: %w", err)
				}
			}
		}

		if in.Photo != "" {
			if _, err := tx.Exec(ctx,
				`INSERT INTO photos (photo, event_id) VALUES ($1, $2)`,
				in.Photo, id,
			); err != nil {
				return fmt.Errorf("insert photo: %w", err)
			}
		}

		updated, err = scanEvent(tx.QueryRow(ctx, eventSelect+` WHERE e.event_id = $1`, id))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("EditEvent: %w", err)
	}
	return updated, nil
}

func linkTags(ctx context.Context, tx database.Querier, eventID int, tagIDs []int) error {
	if len(tagIDs) == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO event_tags (event_id, tag_id)
		 SELECT $1, unnest($2::int[])
		 ON CONFLICT DO NOTHING`,
		eventID, tagIDs,
	); err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return ErrUnknownTag
		}
		return fmt.Errorf("link tags: %w", err)
	}
	return nil
}
