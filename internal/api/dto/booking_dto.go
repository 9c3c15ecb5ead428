package dto

import (
	"github.com/parceldesk/courier-client/internal/backend"
	"github.com/parceldesk/courier-client/internal/booking"
	"github.com/parceldesk/courier-client/internal/domain"
	"github.com/parceldesk/courier-client/internal/lifecycle"
)

// BookingView decorates a booking with the actions the viewing principal
// may perform on it. The view enables exactly these controls.
type BookingView struct {
	Booking        domain.Booking     `json:"booking"`
	AllowedActions []lifecycle.Action `json:"allowedActions"`
}

// NewBookingView builds the view-model for one booking.
func NewBookingView(b domain.Booking, role domain.Role) BookingView {
	return BookingView{
		Booking:        b,
		AllowedActions: lifecycle.AllowedActions(b.Status, lifecycle.ActorForRole(role)),
	}
}

// BookingListResponse is a page of booking view-models.
type BookingListResponse struct {
	Content       []BookingView `json:"content"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	Size          int           `json:"size"`
	Number        int           `json:"number"`
	First         bool          `json:"first"`
	Last          bool          `json:"last"`
}

// NewBookingListResponse converts a backend page into view-models for the
// given viewer role.
func NewBookingListResponse(page *backend.Page[domain.Booking], role domain.Role) BookingListResponse {
	views := make([]BookingView, 0, len(page.Content))
	for _, b := range page.Content {
		views = append(views, NewBookingView(b, role))
	}
	return BookingListResponse{
		Content:       views,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Size:          page.Size,
		Number:        page.Number,
		First:         page.First,
		Last:          page.Last,
	}
}

// BookingFormView is the blank booking form: the selectable options plus
// the validation bounds the form enforces client-side.
type BookingFormView struct {
	DeliveryTypes             []domain.DeliveryType      `json:"deliveryTypes"`
	PackingPreferences        []domain.PackingPreference `json:"packingPreferences"`
	PinLength                 int                        `json:"pinLength"`
	MobileLength              int                        `json:"mobileLength"`
	MaxWeightInGram           int                        `json:"maxWeightInGram"`
	RequiresCustomerReference bool                       `json:"requiresCustomerReference"`
}

// NewBookingFormView builds the form view-model for the given viewer role.
func NewBookingFormView(policy booking.Policy, role domain.Role) BookingFormView {
	return BookingFormView{
		DeliveryTypes:             []domain.DeliveryType{domain.DeliveryStandard, domain.DeliveryExpress, domain.DeliverySameDay},
		PackingPreferences:        []domain.PackingPreference{domain.PackingBasic, domain.PackingPremium},
		PinLength:                 policy.PinLength,
		MobileLength:              policy.MobileLength,
		MaxWeightInGram:           policy.MaxWeightInGram,
		RequiresCustomerReference: role == domain.RoleOfficer,
	}
}

// StatusUpdateForm is the officer tracking form payload.
type StatusUpdateForm struct {
	Status domain.BookingStatus `json:"status"`
}

// ScheduleForm carries confirmed pickup and dropoff times.
type ScheduleForm struct {
	ParcelPickupTime  string `json:"parcelPickupTime"`
	ParcelDropoffTime string `json:"parcelDropoffTime"`
}

// DashboardResponse is the landing view-model for both dashboards.
type DashboardResponse struct {
	Principal domain.Principal `json:"principal"`
	Recent    []BookingView    `json:"recent"`
}
