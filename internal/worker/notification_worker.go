package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/parceldesk/courier-client/internal/events"
)

// StartNotificationWorker subscribes to client events and turns them into
// log lines, the headless stand-in for the toast notifications the views
// show.
func StartNotificationWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	dispatcher.Subscribe(events.EventSessionChanged, func(_ context.Context, e events.Event) error {
		if payload, ok := e.Payload.(events.SessionChangedPayload); ok && payload.Principal != nil {
			logger.Info("session started",
				zap.String("customer_id", payload.Principal.CustomerID),
				zap.String("role", string(payload.Principal.Role)),
			)
			return nil
		}
		logger.Info("session ended")
		return nil
	})

	dispatcher.Subscribe(events.EventBookingCreated, func(_ context.Context, e events.Event) error {
		if payload, ok := e.Payload.(events.BookingCreatedPayload); ok {
			logger.Info("booking created",
				zap.String("booking_id", payload.BookingID),
				zap.String("customer_id", payload.CustomerID),
				zap.Bool("booked_by_officer", payload.BookedByOfficer),
			)
		}
		return nil
	})

	dispatcher.Subscribe(events.EventBookingStatusChanged, func(_ context.Context, e events.Event) error {
		if payload, ok := e.Payload.(events.BookingStatusChangedPayload); ok {
			logger.Info("booking status changed",
				zap.String("booking_id", payload.BookingID),
				zap.String("old_status", string(payload.OldStatus)),
				zap.String("new_status", string(payload.NewStatus)),
			)
		}
		return nil
	})
}
