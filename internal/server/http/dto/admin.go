package dto

// AdminLoginRequest describes login/password payload.
type AdminLoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}
