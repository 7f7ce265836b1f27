package api

import "time"

// TagRef 以 id 參照既有標籤
type TagRef struct {
	TagID int `json:"tag_id" validate:"gte=1" example:"1"`
}

// CreateEventRequest 地點欄位以扁平方式傳入；address 為空時不建立地點
// swagger:model api.CreateEventRequest
type CreateEventRequest struct {
	Description string    `json:"description" validate:"required" example:"Leftover pizza from the club meeting"`
	Qty         int       `json:"qty" validate:"gte=1" example:"3"`
	ExpTime     time.Time `json:"exp_time" validate:"required" example:"2026-03-01T18:00:00Z"`
	Tags        []TagRef  `json:"tags" validate:"dive"`
	Address     string    `json:"address" example:"1 Main St"`
	Floor       string    `json:"floor" validate:"required_with=Address" example:"2"`
	Room        string    `json:"room" validate:"required_with=Address" example:"201"`
	LocNote     *string   `json:"loc_note" example:"next to the elevator"`
	Images      []string  `json:"images"`
}

func (r CreateEventRequest) TagIDs() []int {
	ids := make([]int, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.TagID)
	}
	return ids
}
