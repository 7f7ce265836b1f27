package model

type Photo struct {
	ID      int    `db:"id" json:"id"`
	Photo   string `db:"photo" json:"photo"`
	EventID int    `db:"event_id" json:"event_id"`
}
