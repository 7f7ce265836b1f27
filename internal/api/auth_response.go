package api

// AuthResponse 註冊與登入共用的回應
// swagger:model api.AuthResponse
type AuthResponse struct {
	Success bool   `json:"success" example:"true"`
	Token   string `json:"token" example:"eyJhbGciOi..."`
}
