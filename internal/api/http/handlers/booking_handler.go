package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/parceldesk/courier-client/internal/api/dto"
	"github.com/parceldesk/courier-client/internal/backend"
	"github.com/parceldesk/courier-client/internal/booking"
	"github.com/parceldesk/courier-client/internal/domain"
	"github.com/parceldesk/courier-client/internal/events"
	"github.com/parceldesk/courier-client/internal/guard"
	"github.com/parceldesk/courier-client/internal/lifecycle"
)

// BookingHandler drives the booking form, listings and cancellation for
// both roles. Every status-changing submission is checked against the
// lifecycle model before a request is built.
type BookingHandler struct {
	api        *backend.Client
	policy     booking.Policy
	dispatcher events.Dispatcher
}

// NewBookingHandler constructs handler.
func NewBookingHandler(api *backend.Client, policy booking.Policy, dispatcher events.Dispatcher) *BookingHandler {
	return &BookingHandler{api: api, policy: policy, dispatcher: dispatcher}
}

// NewForm handles GET /customer/booking and GET /officer/booking: the
// blank form view-model with the active validation bounds.
func (h *BookingHandler) NewForm(c *fiber.Ctx) error {
	principal, ok := guard.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}
	return c.JSON(dto.NewBookingFormView(h.policy, principal.Role))
}

// Create handles POST /customer/booking and POST /officer/booking.
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	principal, ok := guard.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}

	var req booking.Request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	asOfficer := principal.Role == domain.RoleOfficer
	normalized, err := booking.Validate(req, h.policy, asOfficer)
	if err != nil {
		return err
	}

	created, err := h.api.CreateBooking(c.UserContext(), normalized, asOfficer)
	if err != nil {
		return err
	}

	h.publish(c, events.Event{
		Type: events.EventBookingCreated,
		Payload: events.BookingCreatedPayload{
			BookingID:       created.BookingID,
			CustomerID:      created.CustomerID,
			DeliveryType:    created.ParcelDeliveryType,
			BookedByOfficer: created.BookedByOfficer,
		},
	})

	return c.Status(http.StatusCreated).JSON(dto.NewBookingView(*created, principal.Role))
}

// Quote handles POST /customer/booking/quote: a cost preview for the form.
func (h *BookingHandler) Quote(c *fiber.Ctx) error {
	principal, ok := guard.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}

	var req booking.Request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	normalized, err := booking.Validate(req, h.policy, principal.Role == domain.RoleOfficer)
	if err != nil {
		return err
	}

	calc, err := h.api.CalculateCost(c.UserContext(), normalized)
	if err != nil {
		return err
	}
	return c.JSON(calc)
}

// List handles GET /customer/bookings: the caller's own bookings.
func (h *BookingHandler) List(c *fiber.Ctx) error {
	principal, ok := guard.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}

	page, err := h.api.ListBookings(c.UserContext(), filterFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBookingListResponse(page, principal.Role))
}

// ListAll handles GET /officer/bookings: bookings across customers.
func (h *BookingHandler) ListAll(c *fiber.Ctx) error {
	principal, ok := guard.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}

	page, err := h.api.ListAllBookings(c.UserContext(), filterFromQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBookingListResponse(page, principal.Role))
}

// Cancel handles the cancel action for both roles. The lifecycle model
// decides legality before anything is sent to the backend; an illegal
// attempt surfaces as a rejected transition, not a backend round trip.
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	principal, ok := guard.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}
	bookingID := c.Params("id")

	current, err := h.api.GetBooking(c.UserContext(), bookingID)
	if err != nil {
		return err
	}

	actor := lifecycle.ActorForRole(principal.Role)
	next, err := lifecycle.Transition(current.Status, lifecycle.ActionCancel, actor)
	if err != nil {
		return err
	}

	if err := h.api.CancelBooking(c.UserContext(), bookingID, principal.Role == domain.RoleOfficer); err != nil {
		return err
	}

	h.publish(c, events.Event{
		Type: events.EventBookingStatusChanged,
		Payload: events.BookingStatusChangedPayload{
			BookingID: bookingID,
			OldStatus: current.Status,
			NewStatus: next,
		},
	})

	return c.JSON(fiber.Map{"bookingId": bookingID, "status": next})
}

// Pay handles POST /customer/bookings/:id/pay: payment finalizes an
// assigned booking.
func (h *BookingHandler) Pay(c *fiber.Ctx) error {
	principal, ok := guard.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}
	bookingID := c.Params("id")

	current, err := h.api.GetBooking(c.UserContext(), bookingID)
	if err != nil {
		return err
	}

	actor := lifecycle.ActorForRole(principal.Role)
	if _, err := lifecycle.Transition(current.Status, lifecycle.ActionConfirmPayment, actor); err != nil {
		return err
	}

	updated, err := h.api.ConfirmPayment(c.UserContext(), bookingID)
	if err != nil {
		return err
	}

	h.publish(c, events.Event{
		Type: events.EventBookingStatusChanged,
		Payload: events.BookingStatusChangedPayload{
			BookingID: bookingID,
			OldStatus: current.Status,
			NewStatus: updated.Status,
		},
	})

	return c.JSON(dto.NewBookingView(*updated, principal.Role))
}

func (h *BookingHandler) publish(c *fiber.Ctx, event events.Event) {
	if h.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = h.dispatcher.Publish(c.UserContext(), event)
}

func filterFromQuery(c *fiber.Ctx) backend.ListFilter {
	return backend.ListFilter{
		BookingID:  c.Query("bookingId"),
		CustomerID: c.Query("customerId"),
		Status:     domain.BookingStatus(c.Query("status")),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
		Page:       c.QueryInt("page", 0),
		Size:       c.QueryInt("size", 10),
	}
}
