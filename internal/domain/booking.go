package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
)

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID                uuid.UUID     `bun:"id,pk,type:uuid"`
	RoomID            string        `bun:"room_id,notnull"`
	RoomName          string        `bun:"room_name,notnull"`
	OwnerName         string        `bun:"owner_name,notnull"`
	OwnerEmail        string        `bun:"owner_email,notnull"`
	ParticipantEmails string        `bun:"participant_emails"`
	Date              string        `bun:"date,notnull"`
	StartTime         string        `bun:"start_time,notnull"`
	EndTime           string        `bun:"end_time,notnull"`
	Title             string        `bun:"title,notnull"`
	Status            BookingStatus `bun:"status,notnull"`
	ReminderSent      bool          `bun:"reminder_sent,notnull"`
	Provider          string        `bun:"provider"`
	ExternalID        string        `bun:"external_id"`
	ExternalSource    string        `bun:"external_source"`
	CreatedAt         time.Time     `bun:"created_at,notnull"`
	UpdatedAt         time.Time     `bun:"updated_at,notnull"`
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.Status == "" {
			b.Status = BookingStatusPending
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		b.UpdatedAt = now
	}
	return nil
}

// StartsAt combines Date and StartTime into a wall-clock instant in loc.
// Returns false when either field is malformed.
func (b *Booking) StartsAt(loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout+" 15:04", b.Date+" "+b.StartTime, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
