package bookings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"roomdesk/internal/domain"
	"roomdesk/internal/notify"
	"roomdesk/internal/store"
)

// Caller is the verified identity attached to a request. Role "admin"
// bypasses the ownership check on reschedule and cancel.
type Caller struct {
	Email string
	Role  string
}

func (c Caller) Admin() bool {
	return c.Role == "admin"
}

// HolidayOracle answers whether a date is a national holiday. A non-nil
// error means the upstream feed is unavailable; the scheduler then proceeds
// fail-open.
type HolidayOracle interface {
	IsNationalHoliday(ctx context.Context, date string) (bool, error)
}

const maxTitleLen = 120

type Scheduler struct {
	repo     store.BookingRepository
	oracle   HolidayOracle
	notifier notify.Notifier
	log      *slog.Logger

	// overridable in tests
	now      func() time.Time
	location *time.Location
}

func NewScheduler(repo store.BookingRepository, oracle HolidayOracle, notifier notify.Notifier, log *slog.Logger) *Scheduler {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		repo:     repo,
		oracle:   oracle,
		notifier: notifier,
		log:      log.With(slog.String("component", "bookings.scheduler")),
		now:      time.Now,
		location: time.Local,
	}
}

type CreateInput struct {
	RoomID               string
	OwnerName            string
	ParticipantEmailsRaw string
	Date                 string
	StartTime            string
	EndTime              string
	Title                string
	Recurrence           *domain.Recurrence
}

type CreateResult struct {
	// Booking is the first created occurrence.
	Booking domain.Booking
	// Occurrences is the total number of rows created.
	Occurrences int
}

func (s *Scheduler) Create(ctx context.Context, caller Caller, in CreateInput) (CreateResult, error) {
	ownerEmail := domain.NormalizeEmail(caller.Email)
	if ownerEmail == "" {
		return CreateResult{}, ErrUnauthenticated
	}

	room, ok := domain.RoomByID(in.RoomID)
	if !ok {
		return CreateResult{}, validationError("unknown room")
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return CreateResult{}, validationError("title is required")
	}
	if len(title) > maxTitleLen {
		return CreateResult{}, validationError(fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}

	ownerName := strings.TrimSpace(in.OwnerName)
	if len(ownerName) < 2 {
		return CreateResult{}, validationError("owner name is required")
	}

	if err := validateSlot(in.Date, in.StartTime, in.EndTime); err != nil {
		return CreateResult{}, err
	}

	participants, err := normalizeParticipants(in.ParticipantEmailsRaw, ownerEmail)
	if err != nil {
		return CreateResult{}, err
	}

	dates, err := domain.ExpandDates(in.Date, in.Recurrence)
	if err != nil {
		return CreateResult{}, validationError(err.Error())
	}
	if len(dates) == 0 {
		// An until date before the start expands to nothing.
		return CreateResult{}, validationError("recurrence ends before it starts")
	}

	dates, err = s.applyDayPolicy(ctx, dates, in.Recurrence)
	if err != nil {
		return CreateResult{}, err
	}

	scope := conflictScope(room.ID, ownerEmail)

	var created []domain.Booking
	err = s.repo.InScopeTransaction(ctx, scope, func(ctx context.Context, tx store.BookingTx) error {
		for _, d := range dates {
			existing, err := tx.ListSameDay(ctx, scope, d, uuid.Nil)
			if err != nil {
				return err
			}
			for _, b := range existing {
				if domain.Overlaps(in.StartTime, in.EndTime, b.StartTime, b.EndTime) {
					return conflictError(d, "an existing booking overlaps that time")
				}
			}
		}

		rows := make([]domain.Booking, 0, len(dates))
		for _, d := range dates {
			rows = append(rows, domain.Booking{
				RoomID:            room.ID,
				RoomName:          room.Name,
				OwnerName:         ownerName,
				OwnerEmail:        ownerEmail,
				ParticipantEmails: participants,
				Date:              d,
				StartTime:         in.StartTime,
				EndTime:           in.EndTime,
				Title:             title,
				Status:            domain.BookingStatusPending,
			})
		}

		created, err = tx.CreateBookings(ctx, rows)
		return err
	})
	if err != nil {
		return CreateResult{}, err
	}

	first := created[0]
	s.log.Info(
		"booking created",
		slog.String("booking_id", first.ID.String()),
		slog.String("room_id", first.RoomID),
		slog.String("date", first.Date),
		slog.Int("occurrences", len(created)),
	)

	// One notification for the whole series, referencing the first
	// occurrence.
	s.dispatch(ctx, notify.KindCreated, first)

	return CreateResult{Booking: first, Occurrences: len(created)}, nil
}

// applyDayPolicy filters or rejects occurrence dates. Daily recurrence
// silently skips weekends and holidays; every other mode rejects the whole
// batch when any date is a holiday. The asymmetry mirrors the product's
// observed behavior and is kept deliberately.
func (s *Scheduler) applyDayPolicy(ctx context.Context, dates []string, r *domain.Recurrence) ([]string, error) {
	if r != nil && r.Mode == domain.RecurrenceDaily {
		business := dates[:0:len(dates)]
		for _, d := range dates {
			if !domain.IsWeekend(d) {
				business = append(business, d)
			}
		}

		filtered := make([]string, 0, len(business))
		for _, d := range business {
			national, err := s.oracle.IsNationalHoliday(ctx, d)
			if err != nil {
				// Fail-open: keep the weekend-filtered list.
				s.log.Warn("holiday check failed, skipping holiday filter", slog.Any("err", err))
				filtered = business
				break
			}
			if !national {
				filtered = append(filtered, d)
			}
		}

		if len(filtered) == 0 {
			return nil, conflictError("", "no business days in the selected range")
		}
		return filtered, nil
	}

	for _, d := range dates {
		national, err := s.oracle.IsNationalHoliday(ctx, d)
		if err != nil {
			// Fail-open: stop checking and proceed unblocked.
			s.log.Warn("holiday check failed, proceeding without blocking", slog.Any("err", err))
			break
		}
		if national {
			return nil, conflictError(d, "booking on a national holiday is not allowed")
		}
	}
	return dates, nil
}

type RescheduleInput struct {
	ID        uuid.UUID
	Date      string
	StartTime string
	EndTime   string
}

func (s *Scheduler) Reschedule(ctx context.Context, caller Caller, in RescheduleInput) (domain.Booking, error) {
	booking, err := s.authorizeMutation(ctx, caller, in.ID)
	if err != nil {
		return domain.Booking{}, err
	}

	if err := validateSlot(in.Date, in.StartTime, in.EndTime); err != nil {
		return domain.Booking{}, err
	}

	national, err := s.oracle.IsNationalHoliday(ctx, in.Date)
	if err != nil {
		s.log.Warn("holiday check failed, proceeding without blocking", slog.Any("err", err))
	} else if national {
		return domain.Booking{}, conflictError(in.Date, "booking on a national holiday is not allowed")
	}

	scope := conflictScope(booking.RoomID, booking.OwnerEmail)

	var updated domain.Booking
	err = s.repo.InScopeTransaction(ctx, scope, func(ctx context.Context, tx store.BookingTx) error {
		existing, err := tx.ListSameDay(ctx, scope, in.Date, booking.ID)
		if err != nil {
			return err
		}
		for _, b := range existing {
			if domain.Overlaps(in.StartTime, in.EndTime, b.StartTime, b.EndTime) {
				return conflictError(in.Date, "an existing booking overlaps that time")
			}
		}
		updated, err = tx.UpdateSlot(ctx, booking.ID, in.Date, in.StartTime, in.EndTime)
		return err
	})
	if err != nil {
		return domain.Booking{}, err
	}

	s.log.Info(
		"booking rescheduled",
		slog.String("booking_id", updated.ID.String()),
		slog.String("date", updated.Date),
	)
	s.dispatch(ctx, notify.KindUpdated, updated)

	return updated, nil
}

func (s *Scheduler) Cancel(ctx context.Context, caller Caller, id uuid.UUID) error {
	booking, err := s.authorizeMutation(ctx, caller, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("booking canceled", slog.String("booking_id", id.String()))
	s.dispatch(ctx, notify.KindCanceled, booking)

	return nil
}

func (s *Scheduler) ListRoom(ctx context.Context, roomID, date string) ([]domain.Booking, error) {
	if _, ok := domain.RoomByID(roomID); !ok {
		return nil, validationError("unknown room")
	}
	return s.repo.ListForRoom(ctx, roomID, date)
}

// ListMine returns bookings the caller owns or participates in.
func (s *Scheduler) ListMine(ctx context.Context, caller Caller, date string) ([]domain.Booking, error) {
	email := domain.NormalizeEmail(caller.Email)
	if email == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListForMember(ctx, email, date)
}

// ReminderLead is how far ahead of the start time a reminder fires.
const ReminderLead = 15 * time.Minute

// SendReminders notifies pending bookings starting within ReminderLead and
// flags them so the reminder fires once. Per-row failures are logged and
// skipped.
func (s *Scheduler) SendReminders(ctx context.Context) (checked, reminded int, err error) {
	candidates, err := s.repo.ListPendingReminders(ctx)
	if err != nil {
		return 0, 0, err
	}

	now := s.now()
	deadline := now.Add(ReminderLead)

	for _, b := range candidates {
		start, ok := b.StartsAt(s.location)
		if !ok || !start.After(now) || start.After(deadline) {
			continue
		}
		s.dispatch(ctx, notify.KindReminder, b)
		if err := s.repo.MarkReminderSent(ctx, b.ID); err != nil {
			s.log.Error("reminder flag update failed", slog.String("booking_id", b.ID.String()), slog.Any("err", err))
			continue
		}
		reminded++
	}

	return len(candidates), reminded, nil
}

func (s *Scheduler) authorizeMutation(ctx context.Context, caller Caller, id uuid.UUID) (domain.Booking, error) {
	email := domain.NormalizeEmail(caller.Email)
	if email == "" {
		return domain.Booking{}, ErrUnauthenticated
	}
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if !caller.Admin() && domain.NormalizeEmail(booking.OwnerEmail) != email {
		return domain.Booking{}, ErrForbidden
	}
	return booking, nil
}

func (s *Scheduler) dispatch(ctx context.Context, kind notify.Kind, booking domain.Booking) {
	if err := s.notifier.Notify(ctx, kind, booking); err != nil {
		s.log.Warn(
			"notification failed",
			slog.String("kind", string(kind)),
			slog.String("booking_id", booking.ID.String()),
			slog.Any("err", err),
		)
	}
}

func validateSlot(date, startTime, endTime string) error {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return validationError("invalid date")
	}
	if !domain.IsStep30(startTime) || !domain.IsStep30(endTime) {
		return validationError("times must be on 30-minute steps (e.g. 06:00, 06:30, 07:00)")
	}
	if !domain.WithinWorkingHours(startTime, endTime) {
		return validationError("time window is outside working hours (06:00 to 17:30)")
	}
	return nil
}

func normalizeParticipants(raw, ownerEmail string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	emails := domain.SplitEmails(raw)
	invalid := make([]string, 0)
	for _, e := range emails {
		if !domain.IsValidEmail(e) {
			invalid = append(invalid, e)
		}
	}
	if len(invalid) > 0 {
		return "", validationError("invalid participant email(s): " + strings.Join(invalid, ", "))
	}
	return domain.JoinParticipants(emails, ownerEmail), nil
}

func conflictScope(roomID, ownerEmail string) store.Scope {
	if roomID == domain.PersonalRoomID {
		return store.AgendaScope(ownerEmail)
	}
	return store.RoomScope(roomID)
}
