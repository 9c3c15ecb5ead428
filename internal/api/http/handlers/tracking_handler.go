package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/parceldesk/courier-client/internal/api/dto"
	"github.com/parceldesk/courier-client/internal/backend"
	"github.com/parceldesk/courier-client/internal/domain"
	"github.com/parceldesk/courier-client/internal/events"
	"github.com/parceldesk/courier-client/internal/guard"
	"github.com/parceldesk/courier-client/internal/lifecycle"
)

// TrackingHandler drives the tracking views: customers follow their
// parcels, officers move them through the lifecycle.
type TrackingHandler struct {
	api        *backend.Client
	dispatcher events.Dispatcher
}

// NewTrackingHandler constructs handler.
func NewTrackingHandler(api *backend.Client, dispatcher events.Dispatcher) *TrackingHandler {
	return &TrackingHandler{api: api, dispatcher: dispatcher}
}

// Track handles GET /customer/tracking/:id and /officer/tracking/:id.
func (h *TrackingHandler) Track(c *fiber.Ctx) error {
	principal, ok := guard.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}

	b, err := h.api.GetBooking(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewBookingView(*b, principal.Role))
}

// UpdateStatus handles PUT /officer/bookings/:id/status. The target status
// comes from the tracking form; the lifecycle model decides whether the
// move is legal for an officer before the backend is asked.
func (h *TrackingHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := guard.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}

	var form dto.StatusUpdateForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if !form.Status.Valid() {
		return fiber.NewError(http.StatusBadRequest, "unknown status")
	}

	bookingID := c.Params("id")
	current, err := h.api.GetBooking(c.UserContext(), bookingID)
	if err != nil {
		return err
	}

	if _, err := lifecycle.TransitionTo(current.Status, form.Status, lifecycle.ActorForRole(principal.Role)); err != nil {
		return err
	}

	updated, err := h.api.UpdateStatus(c.UserContext(), bookingID, form.Status)
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

// UpdateSchedule handles PUT /officer/bookings/:id/schedule: confirming
// pickup and dropoff times moves a new booking to SCHEDULED on the
// backend, so the client checks that system transition first.
func (h *TrackingHandler) UpdateSchedule(c *fiber.Ctx) error {
	principal, ok := guard.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}

	var form dto.ScheduleForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if form.ParcelPickupTime == "" || form.ParcelDropoffTime == "" {
		return fiber.NewError(http.StatusBadRequest, "pickup and dropoff times required")
	}

	bookingID := c.Params("id")
	current, err := h.api.GetBooking(c.UserContext(), bookingID)
	if err != nil {
		return err
	}

	next, err := lifecycle.Transition(current.Status, lifecycle.ActionSchedule, lifecycle.ActorSystem)
	if err != nil {
		return err
	}

	updated, err := h.api.UpdateSchedule(c.UserContext(), bookingID, backend.ScheduleUpdate{
		ParcelPickupTime:  form.ParcelPickupTime,
		ParcelDropoffTime: form.ParcelDropoffTime,
	})
	if err != nil {
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

	return c.JSON(dto.NewBookingView(*updated, principal.Role))
}

// Dashboard handles GET /customer and GET /officer: the principal plus a
// first page of bookings for the landing view.
func (h *TrackingHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := guard.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}

	filter := backend.ListFilter{Page: 0, Size: 5}
	var page *backend.Page[domain.Booking]
	var err error
	if principal.Role == domain.RoleOfficer {
		page, err = h.api.ListAllBookings(c.UserContext(), filter)
	} else {
		page, err = h.api.ListBookings(c.UserContext(), filter)
	}
	if err != nil {
		return err
	}

	recent := make([]dto.BookingView, 0, len(page.Content))
	for _, b := range page.Content {
		recent = append(recent, dto.NewBookingView(b, principal.Role))
	}
	return c.JSON(dto.DashboardResponse{Principal: *principal, Recent: recent})
}

func (h *TrackingHandler) publish(c *fiber.Ctx, event events.Event) {
	if h.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = h.dispatcher.Publish(c.UserContext(), event)
}
