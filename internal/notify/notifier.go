// Package notify delivers booking lifecycle events to an external sink.
// Delivery is fire-and-forget from the scheduler's point of view: a failed
// notification never rolls back the booking mutation.
package notify

import (
	"context"

	"roomdesk/internal/domain"
)

type Kind string

const (
	KindCreated  Kind = "created"
	KindUpdated  Kind = "updated"
	KindCanceled Kind = "canceled"
	KindReminder Kind = "reminder"
)

type Notifier interface {
	Notify(ctx context.Context, kind Kind, booking domain.Booking) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Notify(ctx context.Context, kind Kind, booking domain.Booking) error {
	return nil
}
