package api

import "time"

// swagger:model api.LocationInput
type LocationInput struct {
	Address string  `json:"Address" validate:"required" example:"1 Main St"`
	Floor   string  `json:"floor" validate:"required" example:"2"`
	Room    string  `json:"room" validate:"required" example:"201"`
	LocNote *string `json:"loc_note" example:"next to the elevator"`
}

// EditEventRequest 取代活動的純量欄位與整組標籤
// swagger:model api.EditEventRequest
type EditEventRequest struct {
	ExpTime     time.Time      `json:"exp_time" validate:"required" example:"2026-03-01T18:00:00Z"`
	Description string         `json:"description" validate:"required" example:"Two slices left"`
	Qty         int            `json:"qty" validate:"gte=1" example:"2"`
	Location    *LocationInput `json:"location"`
	Photo       string         `json:"photo"`
	TagIDs      []int          `json:"tag_ids" validate:"dive,gte=1" example:"1,2"`
	Done        *bool          `json:"done" example:"false"`
}
