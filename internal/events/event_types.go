package events

import (
	"time"

	"github.com/parceldesk/courier-client/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionChanged       EventType = "session_changed"
	EventBookingCreated       EventType = "booking_created"
	EventBookingStatusChanged EventType = "booking_status_changed"
)

// Event represents a client-side event emitted by the session store and
// booking flows; subscribers drive notifications and dashboard refreshes.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SessionChangedPayload carries the principal after a login, or nil after
// a logout or forced session clear.
type SessionChangedPayload struct {
	Principal *domain.Principal `json:"principal,omitempty"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	BookingID       string              `json:"booking_id"`
	CustomerID      string              `json:"customer_id"`
	DeliveryType    domain.DeliveryType `json:"delivery_type"`
	BookedByOfficer bool                `json:"booked_by_officer"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	BookingID string               `json:"booking_id"`
	OldStatus domain.BookingStatus `json:"old_status"`
	NewStatus domain.BookingStatus `json:"new_status"`
}
