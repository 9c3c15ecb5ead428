package stubapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parceldesk/courier-client/internal/backend"
	"github.com/parceldesk/courier-client/internal/booking"
	"github.com/parceldesk/courier-client/internal/domain"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	srv := NewServer("test-secret", 60, 4, booking.DefaultPolicy(), zap.NewNop())
	srv.Register(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, backend.Envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope backend.Envelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return resp.StatusCode, envelope
}

func registerAndLogin(t *testing.T, app *fiber.App, registerPath, name string) (string, string) {
	t.Helper()
	status, envelope := doJSON(t, app, http.MethodPost, registerPath, "", backend.RegistrationRequest{
		CustomerName:    name,
		Email:           name + "@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.Equal(t, http.StatusCreated, status, envelope.Message)

	var created struct {
		CustomerID string `json:"customerId"`
	}
	require.NoError(t, json.Unmarshal(envelope.Data, &created))

	status, envelope = doJSON(t, app, http.MethodPost, "/api/auth/login", "", backend.LoginRequest{
		CustomerID: created.CustomerID,
		Password:   "secret123",
	})
	require.Equal(t, http.StatusOK, status, envelope.Message)

	var auth backend.AuthData
	require.NoError(t, json.Unmarshal(envelope.Data, &auth))
	return created.CustomerID, auth.Token
}

func testBookingPayload() booking.Request {
	return booking.Request{
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

func TestLoginRejectsBadPassword(t *testing.T) {
	app := newTestApp(t)
	customerID, _ := registerAndLogin(t, app, "/api/auth/register", "asha")

	status, envelope := doJSON(t, app, http.MethodPost, "/api/auth/login", "", backend.LoginRequest{
		CustomerID: customerID,
		Password:   "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, envelope.Success)
}

func TestDuplicateEmailRejected(t *testing.T) {
	app := newTestApp(t)
	registerAndLogin(t, app, "/api/auth/register", "asha")

	status, envelope := doJSON(t, app, http.MethodPost, "/api/auth/register", "", backend.RegistrationRequest{
		CustomerName:    "asha twin",
		Email:           "asha@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, envelope.Success)
}

func TestCustomerBookingFlow(t *testing.T) {
	app := newTestApp(t)
	customerID, token := registerAndLogin(t, app, "/api/auth/register", "asha")

	status, envelope := doJSON(t, app, http.MethodPost, "/api/customer/bookings", token, testBookingPayload())
	require.Equal(t, http.StatusCreated, status, envelope.Message)

	var created domain.Booking
	require.NoError(t, json.Unmarshal(envelope.Data, &created))
	assert.Equal(t, customerID, created.CustomerID)
	assert.Equal(t, domain.BookingStatusNew, created.Status)
	assert.False(t, created.BookedByOfficer)
	assert.NotEmpty(t, created.BookingID)
	assert.False(t, created.ParcelServiceCost.IsZero())

	// The booking shows up in the customer's own list.
	status, envelope = doJSON(t, app, http.MethodGet, "/api/customer/bookings?page=0&size=10", token, nil)
	require.Equal(t, http.StatusOK, status)
	var page backend.Page[domain.Booking]
	require.NoError(t, json.Unmarshal(envelope.Data, &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, created.BookingID, page.Content[0].BookingID)

	// Cancel while NEW succeeds, cancelling again conflicts.
	status, envelope = doJSON(t, app, http.MethodPost, "/api/customer/bookings/"+created.BookingID+"/cancel", token, nil)
	require.Equal(t, http.StatusOK, status, envelope.Message)

	status, envelope = doJSON(t, app, http.MethodPost, "/api/customer/bookings/"+created.BookingID+"/cancel", token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, envelope.Success)
}

func TestOfficerBookingRequiresCustomerReference(t *testing.T) {
	app := newTestApp(t)
	_, officerToken := registerAndLogin(t, app, "/api/auth/register-officer", "omar")

	status, envelope := doJSON(t, app, http.MethodPost, "/api/officer/bookings", officerToken, testBookingPayload())
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, envelope.Success)
}

func TestOfficerStatusProgression(t *testing.T) {
	app := newTestApp(t)
	customerID, _ := registerAndLogin(t, app, "/api/auth/register", "asha")
	_, officerToken := registerAndLogin(t, app, "/api/auth/register-officer", "omar")

	payload := testBookingPayload()
	payload.CustomerID = customerID
	status, envelope := doJSON(t, app, http.MethodPost, "/api/officer/bookings", officerToken, payload)
	require.Equal(t, http.StatusCreated, status, envelope.Message)

	var created domain.Booking
	require.NoError(t, json.Unmarshal(envelope.Data, &created))
	assert.True(t, created.BookedByOfficer)
	assert.Equal(t, customerID, created.CustomerID)

	// Schedule, then walk the booking forward.
	status, envelope = doJSON(t, app, http.MethodPut,
		"/api/officer/bookings/"+created.BookingID+"/schedule", officerToken,
		backend.ScheduleUpdate{
			ParcelPickupTime:  "2026-09-03T10:00:00Z",
			ParcelDropoffTime: "2026-09-04T16:00:00Z",
		})
	require.Equal(t, http.StatusOK, status, envelope.Message)

	for _, target := range []domain.BookingStatus{
		domain.BookingStatusPickedUp,
		domain.BookingStatusAssigned,
		domain.BookingStatusBooked,
		domain.BookingStatusInTransit,
		domain.BookingStatusDelivered,
	} {
		status, envelope = doJSON(t, app, http.MethodPut,
			"/api/officer/bookings/"+created.BookingID+"/status?status="+string(target), officerToken, nil)
		require.Equal(t, http.StatusOK, status, "advancing to %s: %s", target, envelope.Message)
	}

	// A delivered booking accepts no further moves.
	status, envelope = doJSON(t, app, http.MethodPut,
		"/api/officer/bookings/"+created.BookingID+"/status?status=IN_TRANSIT", officerToken, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, envelope.Success)

	// Payment time was stamped when the booking reached BOOKED, and the
	// stored status survived the later requests intact.
	status, envelope = doJSON(t, app, http.MethodGet, "/api/common/bookings/"+created.BookingID, officerToken, nil)
	require.Equal(t, http.StatusOK, status)
	var final domain.Booking
	require.NoError(t, json.Unmarshal(envelope.Data, &final))
	assert.NotNil(t, final.ParcelPaymentTime)
	assert.Equal(t, domain.BookingStatusDelivered, final.Status)
}

// Each status update request must not disturb what an earlier request
// stored: the stored value has to outlive the request that carried it.
func TestStoredStatusSurvivesLaterRequests(t *testing.T) {
	app := newTestApp(t)
	customerID, _ := registerAndLogin(t, app, "/api/auth/register", "asha")
	_, officerToken := registerAndLogin(t, app, "/api/auth/register-officer", "omar")

	payload := testBookingPayload()
	payload.CustomerID = customerID
	status, envelope := doJSON(t, app, http.MethodPost, "/api/officer/bookings", officerToken, payload)
	require.Equal(t, http.StatusCreated, status, envelope.Message)
	var first domain.Booking
	require.NoError(t, json.Unmarshal(envelope.Data, &first))

	status, envelope = doJSON(t, app, http.MethodPut,
		"/api/officer/bookings/"+first.BookingID+"/schedule", officerToken,
		backend.ScheduleUpdate{
			ParcelPickupTime:  "2026-09-03T10:00:00Z",
			ParcelDropoffTime: "2026-09-04T16:00:00Z",
		})
	require.Equal(t, http.StatusOK, status, envelope.Message)

	status, envelope = doJSON(t, app, http.MethodPut,
		"/api/officer/bookings/"+first.BookingID+"/status?status=PICKED_UP", officerToken, nil)
	require.Equal(t, http.StatusOK, status, envelope.Message)

	// Unrelated requests with different query strings.
	doJSON(t, app, http.MethodGet, "/api/officer/bookings?status=CANCELLED&customerId="+customerID, officerToken, nil)
	doJSON(t, app, http.MethodPut, "/api/officer/bookings/unknown/status?status=ASSIGNED", officerToken, nil)

	status, envelope = doJSON(t, app, http.MethodGet, "/api/common/bookings/"+first.BookingID, officerToken, nil)
	require.Equal(t, http.StatusOK, status)
	var reread domain.Booking
	require.NoError(t, json.Unmarshal(envelope.Data, &reread))
	assert.Equal(t, domain.BookingStatusPickedUp, reread.Status)

	// And the next legal move still succeeds.
	status, envelope = doJSON(t, app, http.MethodPut,
		"/api/officer/bookings/"+first.BookingID+"/status?status=ASSIGNED", officerToken, nil)
	assert.Equal(t, http.StatusOK, status, envelope.Message)
}

func TestCustomerPaymentFlow(t *testing.T) {
	app := newTestApp(t)
	customerID, customerToken := registerAndLogin(t, app, "/api/auth/register", "asha")
	_, officerToken := registerAndLogin(t, app, "/api/auth/register-officer", "omar")

	status, envelope := doJSON(t, app, http.MethodPost, "/api/customer/bookings", customerToken, testBookingPayload())
	require.Equal(t, http.StatusCreated, status, envelope.Message)
	var created domain.Booking
	require.NoError(t, json.Unmarshal(envelope.Data, &created))
	require.Equal(t, customerID, created.CustomerID)

	// Paying before the booking is assigned conflicts.
	status, envelope = doJSON(t, app, http.MethodPost,
		"/api/customer/bookings/"+created.BookingID+"/pay", customerToken, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, envelope.Success)

	// Officer walks the booking to ASSIGNED.
	status, envelope = doJSON(t, app, http.MethodPut,
		"/api/officer/bookings/"+created.BookingID+"/schedule", officerToken,
		backend.ScheduleUpdate{
			ParcelPickupTime:  "2026-09-03T10:00:00Z",
			ParcelDropoffTime: "2026-09-04T16:00:00Z",
		})
	require.Equal(t, http.StatusOK, status, envelope.Message)
	for _, target := range []domain.BookingStatus{domain.BookingStatusPickedUp, domain.BookingStatusAssigned} {
		status, envelope = doJSON(t, app, http.MethodPut,
			"/api/officer/bookings/"+created.BookingID+"/status?status="+string(target), officerToken, nil)
		require.Equal(t, http.StatusOK, status, "advancing to %s: %s", target, envelope.Message)
	}

	// Customer payment succeeds with their own token.
	status, envelope = doJSON(t, app, http.MethodPost,
		"/api/customer/bookings/"+created.BookingID+"/pay", customerToken, nil)
	require.Equal(t, http.StatusOK, status, envelope.Message)
	var paid domain.Booking
	require.NoError(t, json.Unmarshal(envelope.Data, &paid))
	assert.Equal(t, domain.BookingStatusBooked, paid.Status)
	assert.NotNil(t, paid.ParcelPaymentTime)

	// Paying twice conflicts; paying someone else's booking is forbidden.
	status, _ = doJSON(t, app, http.MethodPost,
		"/api/customer/bookings/"+created.BookingID+"/pay", customerToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	_, otherToken := registerAndLogin(t, app, "/api/auth/register", "ravi")
	status, _ = doJSON(t, app, http.MethodPost,
		"/api/customer/bookings/"+created.BookingID+"/pay", otherToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRoleEnforcement(t *testing.T) {
	app := newTestApp(t)
	_, customerToken := registerAndLogin(t, app, "/api/auth/register", "asha")

	status, _ := doJSON(t, app, http.MethodGet, "/api/officer/bookings", customerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	req := httptest.NewRequest(http.MethodGet, "/api/customer/bookings", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCustomerCannotSeeOthersBooking(t *testing.T) {
	app := newTestApp(t)
	_, ashaToken := registerAndLogin(t, app, "/api/auth/register", "asha")
	_, raviToken := registerAndLogin(t, app, "/api/auth/register", "ravi")

	status, envelope := doJSON(t, app, http.MethodPost, "/api/customer/bookings", ashaToken, testBookingPayload())
	require.Equal(t, http.StatusCreated, status)
	var created domain.Booking
	require.NoError(t, json.Unmarshal(envelope.Data, &created))

	status, _ = doJSON(t, app, http.MethodGet, "/api/common/bookings/"+created.BookingID, raviToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
