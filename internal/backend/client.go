package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/parceldesk/courier-client/internal/booking"
	"github.com/parceldesk/courier-client/internal/domain"
)

// ErrSessionRejected reports that the backend refused the bearer token.
// Callers treat it exactly like an absent local session: clear and
// redirect to login.
var ErrSessionRejected = errors.New("session rejected by backend")

// APIError carries a failure envelope from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error: status=%d message=%s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error: status=%d", e.StatusCode)
}

// TokenSource supplies the current bearer token, if any. The session
// store's Token method satisfies it.
type TokenSource func() (string, bool)

// Client is a typed client for the booking backend. The backend itself is
// a black box; this client only computes requests and decodes envelopes,
// it never retries or interprets transport failures.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient builds a backend client. tokens may be nil for flows that
// never authenticate.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

// Login authenticates and returns the token plus profile data.
func (c *Client) Login(ctx context.Context, customerID, password string) (*AuthData, error) {
	var data AuthData
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", LoginRequest{CustomerID: customerID, Password: password}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Register creates a customer account.
func (c *Client) Register(ctx context.Context, req RegistrationRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, nil)
}

// RegisterOfficer creates an officer account.
func (c *Client) RegisterOfficer(ctx context.Context, req RegistrationRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/register-officer", req, nil)
}

// CreateBooking submits a validated booking request. Officer submissions
// go through the officer endpoint so the backend applies the admin fee
// and records bookedByOfficer.
func (c *Client) CreateBooking(ctx context.Context, req booking.Request, asOfficer bool) (*domain.Booking, error) {
	path := "/api/customer/bookings"
	if asOfficer {
		path = "/api/officer/bookings"
	}
	var created domain.Booking
	if err := c.doJSON(ctx, http.MethodPost, path, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetBooking fetches one booking by its public booking id.
func (c *Client) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.doJSON(ctx, http.MethodGet, "/api/common/bookings/"+url.PathEscape(bookingID), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBookings returns the caller's own bookings, paged.
func (c *Client) ListBookings(ctx context.Context, filter ListFilter) (*Page[domain.Booking], error) {
	return c.listBookings(ctx, "/api/customer/bookings", filter)
}

// ListAllBookings returns bookings across customers, paged. Officer only.
func (c *Client) ListAllBookings(ctx context.Context, filter ListFilter) (*Page[domain.Booking], error) {
	return c.listBookings(ctx, "/api/officer/bookings", filter)
}

func (c *Client) listBookings(ctx context.Context, path string, filter ListFilter) (*Page[domain.Booking], error) {
	q := url.Values{}
	if filter.BookingID != "" {
		q.Set("bookingId", filter.BookingID)
	}
	if filter.CustomerID != "" {
		q.Set("customerId", filter.CustomerID)
	}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.StartDate != "" {
		q.Set("startDate", filter.StartDate)
	}
	if filter.EndDate != "" {
		q.Set("endDate", filter.EndDate)
	}
	q.Set("page", strconv.Itoa(filter.Page))
	if filter.Size > 0 {
		q.Set("size", strconv.Itoa(filter.Size))
	}

	var page Page[domain.Booking]
	if err := c.doJSON(ctx, http.MethodGet, path+"?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CancelBooking cancels a booking through the caller's role endpoint.
func (c *Client) CancelBooking(ctx context.Context, bookingID string, asOfficer bool) error {
	path := "/api/customer/bookings/" + url.PathEscape(bookingID) + "/cancel"
	if asOfficer {
		path = "/api/officer/bookings/" + url.PathEscape(bookingID) + "/cancel"
	}
	return c.doJSON(ctx, http.MethodPost, path, nil, nil)
}

// ConfirmPayment finalizes payment on an assigned booking through the
// customer endpoint.
func (c *Client) ConfirmPayment(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var b domain.Booking
	path := "/api/customer/bookings/" + url.PathEscape(bookingID) + "/pay"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateStatus moves a booking to the given status. Officer only; the
// caller is expected to have consulted the lifecycle model first.
func (c *Client) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.Booking, error) {
	var b domain.Booking
	path := "/api/officer/bookings/" + url.PathEscape(bookingID) + "/status?status=" + url.QueryEscape(string(status))
	if err := c.doJSON(ctx, http.MethodPut, path, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateSchedule confirms pickup and dropoff times for a booking.
func (c *Client) UpdateSchedule(ctx context.Context, bookingID string, update ScheduleUpdate) (*domain.Booking, error) {
	var b domain.Booking
	path := "/api/officer/bookings/" + url.PathEscape(bookingID) + "/schedule"
	if err := c.doJSON(ctx, http.MethodPut, path, update, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CalculateCost quotes the service cost for a prospective booking.
func (c *Client) CalculateCost(ctx context.Context, req booking.Request) (*CostCalculation, error) {
	var calc CostCalculation
	if err := c.doJSON(ctx, http.MethodPost, "/api/common/bookings/cost", req, &calc); err != nil {
		return nil, err
	}
	return &calc, nil
}

// doJSON performs one request/response cycle: encode the body, attach the
// bearer token and a correlation id, decode the envelope, and unmarshal
// its data into out when provided.
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, out any) error {
	var buf bytes.Buffer
	if reqBody != nil {
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token, ok := c.tokens(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrSessionRejected
	}

	var envelope Envelope
	if len(body) > 0 {
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("decode backend response: %w", err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode backend data: %w", err)
		}
	}
	return nil
}
