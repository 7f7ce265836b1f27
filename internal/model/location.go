package model

type Location struct {
	ID      int     `db:"id" json:"id"`
	Address string  `db:"address" json:"Address"`
	Floor   string  `db:"floor" json:"floor"`
	Room    string  `db:"room" json:"room"`
	LocNote *string `db:"loc_note" json:"loc_note"`
}
