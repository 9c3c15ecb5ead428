package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceldesk/courier-client/internal/domain"
)

func validRequest() Request {
	return Request{
		ReceiverName:              "Ravi Kumar",
		ReceiverAddress:           "12 Lake View Road, Chennai",
		ReceiverPin:               "600042",
		ReceiverMobile:            "9876543210",
		ParcelWeightInGram:        1200,
		ParcelContentsDescription: "Books",
		ParcelDeliveryType:        domain.DeliveryStandard,
		ParcelPackingPreference:   domain.PackingBasic,
	}
}

func asValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	return verr
}

func TestValidateAcceptsAndNormalizes(t *testing.T) {
	req := validRequest()
	req.ReceiverName = "  Ravi Kumar  "
	req.ParcelContentsDescription = "\tBooks\n"

	normalized, err := Validate(req, DefaultPolicy(), false)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", normalized.ReceiverName)
	assert.Equal(t, "Books", normalized.ParcelContentsDescription)
	assert.Equal(t, 1200, normalized.ParcelWeightInGram)
}

func TestValidateNegativeWeightCitedFirst(t *testing.T) {
	req := validRequest()
	req.ParcelWeightInGram = -5

	_, err := Validate(req, DefaultPolicy(), false)
	verr := asValidationError(t, err)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, "parcelWeightInGram", verr.Violations[0].Field)
	assert.Equal(t, CodeInvalidValue, verr.Violations[0].Code)
}

func TestValidateViolationsInFieldOrder(t *testing.T) {
	// Everything wrong at once: violations must appear in the order the
	// fields are declared on the form, not discovery order.
	req := Request{
		ReceiverPin:        "12",
		ReceiverMobile:     "98765abc10",
		ParcelWeightInGram: -5,
		ParcelDeliveryType: "DRONE",
	}

	_, err := Validate(req, DefaultPolicy(), false)
	verr := asValidationError(t, err)

	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		fields = append(fields, v.Field)
	}
	assert.Equal(t, []string{
		"receiverName",
		"receiverAddress",
		"receiverPin",
		"receiverMobile",
		"parcelWeightInGram",
		"parcelContentsDescription",
		"parcelDeliveryType",
		"parcelPackingPreference",
	}, fields)
}

func TestValidateWeightExceeded(t *testing.T) {
	req := validRequest()
	req.ParcelWeightInGram = 50001

	_, err := Validate(req, DefaultPolicy(), false)
	verr := asValidationError(t, err)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, CodeWeightExceeded, verr.Violations[0].Code)
	assert.True(t, verr.Has(CodeWeightExceeded))

	// A zero limit disables the bound entirely.
	relaxed := DefaultPolicy()
	relaxed.MaxWeightInGram = 0
	_, err = Validate(req, relaxed, false)
	assert.NoError(t, err)
}

func TestValidatePinAndMobilePatterns(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		field  string
	}{
		{"pin too short", func(r *Request) { r.ReceiverPin = "60004" }, "receiverPin"},
		{"pin too long", func(r *Request) { r.ReceiverPin = "6000421" }, "receiverPin"},
		{"pin with letters", func(r *Request) { r.ReceiverPin = "60004A" }, "receiverPin"},
		{"mobile too short", func(r *Request) { r.ReceiverMobile = "987654321" }, "receiverMobile"},
		{"mobile with spaces", func(r *Request) { r.ReceiverMobile = "98765 4321" }, "receiverMobile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := Validate(req, DefaultPolicy(), false)
			verr := asValidationError(t, err)
			require.Len(t, verr.Violations, 1)
			assert.Equal(t, tt.field, verr.Violations[0].Field)
			assert.Equal(t, CodePattern, verr.Violations[0].Code)
		})
	}
}

func TestValidatePolicyLengthsApply(t *testing.T) {
	policy := Policy{PinLength: 4, MobileLength: 11, MaxWeightInGram: 50000}

	req := validRequest()
	req.ReceiverPin = "6001"
	req.ReceiverMobile = "19876543210"
	_, err := Validate(req, policy, false)
	assert.NoError(t, err)

	// The defaults no longer pass under the tighter policy.
	_, err = Validate(validRequest(), policy, false)
	verr := asValidationError(t, err)
	assert.True(t, verr.Has(CodePattern))
}

func TestValidateTimeOrdering(t *testing.T) {
	pickup := time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC)
	dropoff := pickup.Add(-2 * time.Hour)

	req := validRequest()
	req.ParcelPickupTime = &pickup
	req.ParcelDropoffTime = &dropoff

	_, err := Validate(req, DefaultPolicy(), false)
	verr := asValidationError(t, err)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, "parcelDropoffTime", verr.Violations[0].Field)
	assert.Equal(t, CodeTimeOrder, verr.Violations[0].Code)

	// Equal times are acceptable, as is either time on its own.
	req.ParcelDropoffTime = &pickup
	_, err = Validate(req, DefaultPolicy(), false)
	assert.NoError(t, err)

	req.ParcelDropoffTime = nil
	_, err = Validate(req, DefaultPolicy(), false)
	assert.NoError(t, err)
}

func TestValidateOfficerRequiresCustomerReference(t *testing.T) {
	req := validRequest()

	_, err := Validate(req, DefaultPolicy(), true)
	verr := asValidationError(t, err)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, "customerId", verr.Violations[0].Field)
	assert.Equal(t, CodeMissingCustomerReference, verr.Violations[0].Code)

	// Whitespace is not a reference.
	req.CustomerID = "   "
	_, err = Validate(req, DefaultPolicy(), true)
	verr = asValidationError(t, err)
	assert.True(t, verr.Has(CodeMissingCustomerReference))

	req.CustomerID = "CUST0007"
	normalized, err := Validate(req, DefaultPolicy(), true)
	require.NoError(t, err)
	assert.Equal(t, "CUST0007", normalized.CustomerID)

	// Customers never need one.
	req.CustomerID = ""
	_, err = Validate(req, DefaultPolicy(), false)
	assert.NoError(t, err)
}

func TestValidateEnumMembership(t *testing.T) {
	req := validRequest()
	req.ParcelDeliveryType = "TELEPORT"
	req.ParcelPackingPreference = "VACUUM"

	_, err := Validate(req, DefaultPolicy(), false)
	verr := asValidationError(t, err)
	require.Len(t, verr.Violations, 2)
	assert.Equal(t, "parcelDeliveryType", verr.Violations[0].Field)
	assert.Equal(t, "parcelPackingPreference", verr.Violations[1].Field)
	for _, v := range verr.Violations {
		assert.Equal(t, CodeInvalidValue, v.Code)
	}
}
