package api

// swagger:model api.SignupRequest
type SignupRequest struct {
	Name     string `json:"name" validate:"required,safe_string" example:"Ann Lee"`
	Email    string `json:"email" validate:"required,campus_email" example:"ann@campus.edu"`
	Password string `json:"password" validate:"required,campus_password" example:"secret1"`
}
