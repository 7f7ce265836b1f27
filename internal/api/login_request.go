package api

// swagger:model api.LoginRequest
type LoginRequest struct {
	Email    string `json:"email" validate:"required,campus_email" example:"ann@campus.edu"`
	Password string `json:"password" validate:"required" example:"secret1"`
}
