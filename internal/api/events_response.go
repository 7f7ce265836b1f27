package api

import "campus-events/internal/model"

// swagger:model api.EventsResponse
type EventsResponse struct {
	Events []model.Event `json:"events"`
}
