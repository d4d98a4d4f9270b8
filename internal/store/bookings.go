package store

import (
	"context"

	"github.com/google/uuid"

	"roomdesk/internal/domain"
)

// Scope identifies the set of bookings a new or moved booking may conflict
// with: a physical room, or one user's personal agenda.
type Scope struct {
	RoomID     string
	OwnerEmail string
}

func RoomScope(roomID string) Scope {
	return Scope{RoomID: roomID}
}

func AgendaScope(ownerEmail string) Scope {
	return Scope{RoomID: domain.PersonalRoomID, OwnerEmail: ownerEmail}
}

func (s Scope) Personal() bool {
	return s.RoomID == domain.PersonalRoomID
}

// LockKey is the advisory-lock key serializing mutations within the scope.
func (s Scope) LockKey() string {
	if s.Personal() {
		return "agenda:" + s.OwnerEmail
	}
	return "room:" + s.RoomID
}

type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	// ListForRoom returns a room's bookings, restricted to one date when
	// date is non-empty, ordered by date then start time.
	ListForRoom(ctx context.Context, roomID, date string) ([]domain.Booking, error)
	// ListForMember returns bookings the user owns or participates in.
	ListForMember(ctx context.Context, email, date string) ([]domain.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ListPendingReminders returns pending bookings whose reminder has not
	// fired yet.
	ListPendingReminders(ctx context.Context) ([]domain.Booking, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) error

	// InScopeTransaction runs fn inside one transaction holding the
	// scope's advisory lock, serializing conflict checks against inserts
	// and updates for the same room or agenda.
	InScopeTransaction(ctx context.Context, scope Scope, fn func(ctx context.Context, tx BookingTx) error) error
}

// BookingTx is the mutation surface available inside a scope transaction.
type BookingTx interface {
	// ListSameDay returns the scope's bookings on date, excluding
	// excludeID when it is non-nil (the booking being rescheduled).
	ListSameDay(ctx context.Context, scope Scope, date string, excludeID uuid.UUID) ([]domain.Booking, error)
	// CreateBookings inserts every row or none.
	CreateBookings(ctx context.Context, bookings []domain.Booking) ([]domain.Booking, error)
	UpdateSlot(ctx context.Context, id uuid.UUID, date, startTime, endTime string) (domain.Booking, error)
}
