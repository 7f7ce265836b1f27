package model

type Tag struct {
	TagID int    `db:"tag_id" json:"tag_id"`
	Name  string `db:"name" json:"name"`
}
