package dto

import "time"

// SignupRequest payload for seller registration.
type SignupRequest struct {
	LoginID       string  `json:"login_id"`
	Password      string  `json:"password"`
	NameKR        string  `json:"name_kr"`
	NameEN        string  `json:"name_en"`
	CenterNumber  string  `json:"center_number"`
	ContactNumber string  `json:"contact_number"`
	SiteURL       *string `json:"site_url"`
	KakaoID       *string `json:"kakao_id"`
	InstaID       *string `json:"insta_id"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

// PasswordChangeRequest payload for in-place credential change.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
