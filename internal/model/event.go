// File: internal/model/event.go
package model

import "time"

// Creator 為活動建立者對外顯示的資訊
type Creator struct {
	Name string `json:"name"`
}

type Event struct {
	EventID     int       `db:"event_id" json:"event_id"`
	Description string    `db:"description" json:"description"`
	Qty         int       `db:"qty" json:"qty"`
	PostTime    time.Time `db:"post_time" json:"post_time"`
	ExpTime     time.Time `db:"exp_time" json:"exp_time"`
	Done        bool      `db:"done" json:"done"`
	CreatedByID int       `db:"created_by_id" json:"createdById"`
	LocationID  *int      `db:"location_id" json:"locationId"`

	CreatedBy Creator   `json:"createdBy"`
	Location  *Location `json:"location"`
	Tags      []Tag     `json:"tags"`
	Photos    []Photo   `json:"photos"`
}
