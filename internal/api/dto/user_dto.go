package dto

import "github.com/parceldesk/courier-client/internal/domain"

// LoginForm is the credential payload from the login view.
type LoginForm struct {
	CustomerID string `json:"customerId"`
	Password   string `json:"password"`
}

// RegisterForm is the payload from the registration views.
type RegisterForm struct {
	CustomerName    string `json:"customerName"`
	Email           string `json:"email"`
	CountryCode     string `json:"countryCode"`
	MobileNumber    string `json:"mobileNumber"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Preferences     string `json:"preferences,omitempty"`
}

// SessionResponse describes the active session to the views.
type SessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	Principal     *domain.Principal `json:"principal,omitempty"`
}
