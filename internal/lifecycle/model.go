package lifecycle

import (
	"fmt"

	"github.com/parceldesk/courier-client/internal/domain"
)

// Action identifies a status-changing operation on a booking.
type Action string

const (
	ActionSchedule       Action = "SCHEDULE"
	ActionCancel         Action = "CANCEL"
	ActionRecordPickup   Action = "RECORD_PICKUP"
	ActionAssign         Action = "ASSIGN"
	ActionConfirmPayment Action = "CONFIRM_PAYMENT"
	ActionDispatch       Action = "DISPATCH"
	ActionMarkDelivered  Action = "MARK_DELIVERED"
)

// Actor identifies who is attempting a transition. System covers
// transitions the client performs automatically, such as scheduling a
// booking once its pickup and dropoff times are confirmed.
type Actor string

const (
	ActorCustomer Actor = "CUSTOMER"
	ActorOfficer  Actor = "OFFICER"
	ActorSystem   Actor = "SYSTEM"
)

// ActorForRole maps an account role to its lifecycle actor.
func ActorForRole(role domain.Role) Actor {
	if role == domain.RoleOfficer {
		return ActorOfficer
	}
	return ActorCustomer
}

// TransitionRejected reports an illegal lifecycle move. The UI surfaces it
// as a disabled or no-op action, never as a crash.
type TransitionRejected struct {
	From   domain.BookingStatus
	To     domain.BookingStatus
	Action Action
}

func (e *TransitionRejected) Error() string {
	return fmt.Sprintf("transition from %s to %s rejected", e.From, e.To)
}

// rule declares one legal transition: an action moving a booking from a
// source status to a target status, performable by the listed actors.
type rule struct {
	action Action
	from   domain.BookingStatus
	to     domain.BookingStatus
	actors []Actor
}

// transitionTable is the single source of truth for booking lifecycle
// legality. Order matters: AllowedActions reports actions in declaration
// order so the UI can render controls deterministically.
var transitionTable = []rule{
	{ActionSchedule, domain.BookingStatusNew, domain.BookingStatusScheduled, []Actor{ActorSystem}},
	{ActionCancel, domain.BookingStatusNew, domain.BookingStatusCancelled, []Actor{ActorCustomer, ActorOfficer}},
	{ActionCancel, domain.BookingStatusScheduled, domain.BookingStatusCancelled, []Actor{ActorCustomer, ActorOfficer}},
	{ActionCancel, domain.BookingStatusPickedUp, domain.BookingStatusCancelled, []Actor{ActorOfficer}},
	{ActionCancel, domain.BookingStatusAssigned, domain.BookingStatusCancelled, []Actor{ActorOfficer}},
	{ActionRecordPickup, domain.BookingStatusScheduled, domain.BookingStatusPickedUp, []Actor{ActorOfficer}},
	{ActionAssign, domain.BookingStatusPickedUp, domain.BookingStatusAssigned, []Actor{ActorOfficer}},
	{ActionConfirmPayment, domain.BookingStatusAssigned, domain.BookingStatusBooked, []Actor{ActorCustomer, ActorOfficer}},
	{ActionDispatch, domain.BookingStatusBooked, domain.BookingStatusInTransit, []Actor{ActorOfficer}},
	{ActionMarkDelivered, domain.BookingStatusInTransit, domain.BookingStatusDelivered, []Actor{ActorOfficer}},
}

// IsTerminal reports whether no further transition is permitted from the
// given status.
func IsTerminal(status domain.BookingStatus) bool {
	return status == domain.BookingStatusDelivered || status == domain.BookingStatusCancelled
}

// Transition applies an action to the current status on behalf of an
// actor. It returns the next status, or a *TransitionRejected error when
// the table has no matching rule.
func Transition(current domain.BookingStatus, action Action, actor Actor) (domain.BookingStatus, error) {
	for _, r := range transitionTable {
		if r.action != action || r.from != current {
			continue
		}
		if !actorAllowed(r.actors, actor) {
			continue
		}
		return r.to, nil
	}
	return current, &TransitionRejected{From: current, To: targetOf(action, current), Action: action}
}

// TransitionTo validates a move to an explicit target status, as submitted
// by the officer tracking form. It returns the action that performs the
// move, or a *TransitionRejected error naming the attempted target.
func TransitionTo(current, target domain.BookingStatus, actor Actor) (Action, error) {
	for _, r := range transitionTable {
		if r.from == current && r.to == target && actorAllowed(r.actors, actor) {
			return r.action, nil
		}
	}
	return "", &TransitionRejected{From: current, To: target}
}

// CanTransition reports whether any rule moves a booking from current to
// target, regardless of actor. It backs rendering decisions where the
// attempted target is known but the actor is not relevant.
func CanTransition(current, target domain.BookingStatus) bool {
	for _, r := range transitionTable {
		if r.from == current && r.to == target {
			return true
		}
	}
	return false
}

// AllowedActions returns, in declaration order, the actions the actor may
// perform on a booking in the given status. The UI enables exactly these
// controls.
func AllowedActions(status domain.BookingStatus, actor Actor) []Action {
	var actions []Action
	for _, r := range transitionTable {
		if r.from != status || !actorAllowed(r.actors, actor) {
			continue
		}
		actions = append(actions, r.action)
	}
	return actions
}

// targetOf returns the declared target of an action so a rejection can
// name the attempted destination, falling back to the current status.
func targetOf(action Action, current domain.BookingStatus) domain.BookingStatus {
	for _, r := range transitionTable {
		if r.action == action {
			return r.to
		}
	}
	return current
}

func actorAllowed(actors []Actor, actor Actor) bool {
	for _, a := range actors {
		if a == actor {
			return true
		}
	}
	return false
}
