package api

// swagger:model api.CreateTagRequest
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,safe_string" example:"food"`
}
