package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus enumerates lifecycle states for parcel bookings.
type BookingStatus string

const (
	BookingStatusNew       BookingStatus = "NEW"
	BookingStatusScheduled BookingStatus = "SCHEDULED"
	BookingStatusPickedUp  BookingStatus = "PICKED_UP"
	BookingStatusAssigned  BookingStatus = "ASSIGNED"
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusInTransit BookingStatus = "IN_TRANSIT"
	BookingStatusDelivered BookingStatus = "DELIVERED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Valid reports whether the status is a member of the enumeration.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusNew, BookingStatusScheduled, BookingStatusPickedUp,
		BookingStatusAssigned, BookingStatusBooked, BookingStatusInTransit,
		BookingStatusDelivered, BookingStatusCancelled:
		return true
	}
	return false
}

// DeliveryType enumerates delivery speed options.
type DeliveryType string

const (
	DeliveryStandard DeliveryType = "STANDARD"
	DeliveryExpress  DeliveryType = "EXPRESS"
	DeliverySameDay  DeliveryType = "SAME_DAY"
)

// Valid reports whether the delivery type is a member of the enumeration.
func (d DeliveryType) Valid() bool {
	return d == DeliveryStandard || d == DeliveryExpress || d == DeliverySameDay
}

// PackingPreference enumerates parcel packing options.
type PackingPreference string

const (
	PackingBasic   PackingPreference = "BASIC"
	PackingPremium PackingPreference = "PREMIUM"
)

// Valid reports whether the packing preference is a member of the enumeration.
func (p PackingPreference) Valid() bool {
	return p == PackingBasic || p == PackingPremium
}

// Booking is the aggregate for a parcel shipment. A booking always belongs
// to exactly one customer; an officer may create it on the customer's
// behalf (BookedByOfficer), but ownership stays with the customer.
type Booking struct {
	ID                        int64             `json:"id"`
	BookingID                 string            `json:"bookingId"`
	CustomerID                string            `json:"customerId"`
	ReceiverName              string            `json:"receiverName"`
	ReceiverAddress           string            `json:"receiverAddress"`
	ReceiverPin               string            `json:"receiverPin"`
	ReceiverMobile            string            `json:"receiverMobile"`
	ParcelWeightInGram        int               `json:"parcelWeightInGram"`
	ParcelContentsDescription string            `json:"parcelContentsDescription"`
	ParcelDeliveryType        DeliveryType      `json:"parcelDeliveryType"`
	ParcelPackingPreference   PackingPreference `json:"parcelPackingPreference"`
	ParcelPickupTime          *time.Time        `json:"parcelPickupTime,omitempty"`
	ParcelDropoffTime         *time.Time        `json:"parcelDropoffTime,omitempty"`
	ParcelServiceCost         decimal.Decimal   `json:"parcelServiceCost"`
	ParcelPaymentTime         *time.Time        `json:"parcelPaymentTime,omitempty"`
	Status                    BookingStatus     `json:"status"`
	CreatedAt                 time.Time         `json:"createdAt"`
	UpdatedAt                 time.Time         `json:"updatedAt"`
	BookedByOfficer           bool              `json:"bookedByOfficer"`
}
