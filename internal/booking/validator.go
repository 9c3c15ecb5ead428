package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/parceldesk/courier-client/internal/domain"
)

// Request is a prospective booking as captured from the booking form,
// before submission to the backend.
type Request struct {
	ReceiverName              string                   `json:"receiverName"`
	ReceiverAddress           string                   `json:"receiverAddress"`
	ReceiverPin               string                   `json:"receiverPin"`
	ReceiverMobile            string                   `json:"receiverMobile"`
	ParcelWeightInGram        int                      `json:"parcelWeightInGram"`
	ParcelContentsDescription string                   `json:"parcelContentsDescription"`
	ParcelDeliveryType        domain.DeliveryType      `json:"parcelDeliveryType"`
	ParcelPackingPreference   domain.PackingPreference `json:"parcelPackingPreference"`
	ParcelPickupTime          *time.Time               `json:"parcelPickupTime,omitempty"`
	ParcelDropoffTime         *time.Time               `json:"parcelDropoffTime,omitempty"`
	// CustomerID names the customer an officer is booking on behalf of.
	CustomerID string `json:"customerId,omitempty"`
}

// Policy carries the market-configurable validation bounds.
type Policy struct {
	// PinLength is the exact digit count for a postal code. Default 6.
	PinLength int
	// MobileLength is the exact digit count for a phone number. Default 10.
	MobileLength int
	// MaxWeightInGram is the carrier weight limit. Zero disables the bound.
	// Default 50000.
	MaxWeightInGram int
}

// DefaultPolicy returns the documented defaults.
func DefaultPolicy() Policy {
	return Policy{PinLength: 6, MobileLength: 10, MaxWeightInGram: 50000}
}

// Violation codes for failures that callers branch on.
const (
	CodeRequired                 = "REQUIRED"
	CodePattern                  = "PATTERN"
	CodeInvalidValue             = "INVALID_VALUE"
	CodeWeightExceeded           = "WEIGHT_EXCEEDED"
	CodeTimeOrder                = "TIME_ORDER"
	CodeMissingCustomerReference = "MISSING_CUSTOMER_REFERENCE"
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError aggregates violations in field declaration order so the
// UI can display them deterministically.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("validation failed: %s %s", e.Violations[0].Field, e.Violations[0].Code)
	}
	return fmt.Sprintf("validation failed: %d violations", len(e.Violations))
}

// Has reports whether any violation carries the given code.
func (e *ValidationError) Has(code string) bool {
	for _, v := range e.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Validate checks a prospective booking against the policy. It is pure:
// on success it returns a normalized copy (trimmed text fields), on
// failure a *ValidationError listing violations in field declaration
// order. submittedByOfficer marks an officer booking on a customer's
// behalf, which requires a target customer reference.
func Validate(req Request, policy Policy, submittedByOfficer bool) (Request, error) {
	var violations []Violation

	req.ReceiverName = strings.TrimSpace(req.ReceiverName)
	req.ReceiverAddress = strings.TrimSpace(req.ReceiverAddress)
	req.ReceiverPin = strings.TrimSpace(req.ReceiverPin)
	req.ReceiverMobile = strings.TrimSpace(req.ReceiverMobile)
	req.ParcelContentsDescription = strings.TrimSpace(req.ParcelContentsDescription)
	req.CustomerID = strings.TrimSpace(req.CustomerID)

	if req.ReceiverName == "" {
		violations = append(violations, Violation{"receiverName", CodeRequired, "receiver name is required"})
	}
	if req.ReceiverAddress == "" {
		violations = append(violations, Violation{"receiverAddress", CodeRequired, "receiver address is required"})
	}
	if !allDigits(req.ReceiverPin, policy.PinLength) {
		violations = append(violations, Violation{"receiverPin", CodePattern,
			fmt.Sprintf("PIN must be %d digits", policy.PinLength)})
	}
	if !allDigits(req.ReceiverMobile, policy.MobileLength) {
		violations = append(violations, Violation{"receiverMobile", CodePattern,
			fmt.Sprintf("mobile number must be %d digits", policy.MobileLength)})
	}
	if req.ParcelWeightInGram <= 0 {
		violations = append(violations, Violation{"parcelWeightInGram", CodeInvalidValue, "weight must be at least 1 gram"})
	} else if policy.MaxWeightInGram > 0 && req.ParcelWeightInGram > policy.MaxWeightInGram {
		violations = append(violations, Violation{"parcelWeightInGram", CodeWeightExceeded,
			fmt.Sprintf("weight exceeds the %d gram carrier limit", policy.MaxWeightInGram)})
	}
	if req.ParcelContentsDescription == "" {
		violations = append(violations, Violation{"parcelContentsDescription", CodeRequired, "parcel contents description is required"})
	}
	if !req.ParcelDeliveryType.Valid() {
		violations = append(violations, Violation{"parcelDeliveryType", CodeInvalidValue, "unknown delivery type"})
	}
	if !req.ParcelPackingPreference.Valid() {
		violations = append(violations, Violation{"parcelPackingPreference", CodeInvalidValue, "unknown packing preference"})
	}
	if req.ParcelPickupTime != nil && req.ParcelDropoffTime != nil &&
		req.ParcelDropoffTime.Before(*req.ParcelPickupTime) {
		violations = append(violations, Violation{"parcelDropoffTime", CodeTimeOrder, "dropoff time cannot precede pickup time"})
	}
	if submittedByOfficer && req.CustomerID == "" {
		violations = append(violations, Violation{"customerId", CodeMissingCustomerReference,
			"a target customer is required for officer bookings"})
	}

	if len(violations) > 0 {
		return Request{}, &ValidationError{Violations: violations}
	}
	return req, nil
}

// allDigits reports whether s is exactly length decimal digits.
func allDigits(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
