package booking

import (
	"github.com/jwalitptl/salon-api/internal/model"
)

// transitions is the booking lifecycle graph. A reschedule re-enters
// pending from either live state; cancelled and completed are terminal.
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingStatusPending: {
		model.BookingStatusConfirmed,
		model.BookingStatusCancelled,
		model.BookingStatusPending,
	},
	model.BookingStatusConfirmed: {
		model.BookingStatusCompleted,
		model.BookingStatusCancelled,
		model.BookingStatusPending,
	},
	model.BookingStatusCancelled: {},
	model.BookingStatusCompleted: {},
}

// CanTransition reports whether the lifecycle permits moving a booking
// from one status to another.
func CanTransition(from, to model.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leads out of status.
func IsTerminal(status model.BookingStatus) bool {
	return len(transitions[status]) == 0
}
