package backend

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/parceldesk/courier-client/internal/domain"
)

// Envelope is the uniform wrapper every backend response follows.
type Envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp"`
}

// Page is the envelope used by list endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	CustomerID string `json:"customerId"`
	Password   string `json:"password"`
}

// AuthData is the login response body: the bearer token plus the profile
// fields the client builds its principal from.
type AuthData struct {
	Token        string      `json:"token"`
	CustomerID   string      `json:"customerId"`
	CustomerName string      `json:"customerName"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
}

// Principal converts the login response into the session principal.
func (a AuthData) Principal() domain.Principal {
	return domain.Principal{
		CustomerID:   a.CustomerID,
		CustomerName: a.CustomerName,
		Email:        a.Email,
		Role:         a.Role,
	}
}

// RegistrationRequest is the payload for the register endpoints.
type RegistrationRequest struct {
	CustomerName    string `json:"customerName"`
	Email           string `json:"email"`
	CountryCode     string `json:"countryCode"`
	MobileNumber    string `json:"mobileNumber"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Preferences     string `json:"preferences,omitempty"`
}

// ListFilter narrows booking listings.
type ListFilter struct {
	BookingID  string
	CustomerID string
	Status     domain.BookingStatus
	StartDate  string
	EndDate    string
	Page       int
	Size       int
}

// ScheduleUpdate carries confirmed pickup and dropoff times.
type ScheduleUpdate struct {
	ParcelPickupTime  string `json:"parcelPickupTime"`
	ParcelDropoffTime string `json:"parcelDropoffTime"`
}

// CostBreakdown itemizes a service cost quote.
type CostBreakdown struct {
	BaseRate       decimal.Decimal `json:"baseRate"`
	WeightCharge   decimal.Decimal `json:"weightCharge"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	PackingCharge  decimal.Decimal `json:"packingCharge"`
	AdminFee       decimal.Decimal `json:"adminFee"`
	Tax            decimal.Decimal `json:"tax"`
}

// CostCalculation is the response of the cost quote endpoint.
type CostCalculation struct {
	TotalCost decimal.Decimal `json:"totalCost"`
	Breakdown CostBreakdown   `json:"breakdown"`
}
