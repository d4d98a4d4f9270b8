package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"roomdesk/internal/domain"
	"roomdesk/internal/store"
)

type BookingRepo struct {
	db *bun.DB
}

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

type bookingTx struct {
	tx bun.Tx
}

func (r *BookingRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	var row domain.Booking
	err := r.db.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return row, nil
}

func (r *BookingRepo) ListForRoom(ctx context.Context, roomID, date string) ([]domain.Booking, error) {
	var rows []domain.Booking
	q := r.db.NewSelect().
		Model(&rows).
		Where("room_id = ?", roomID)
	if date != "" {
		q = q.Where("date = ?", date)
	}
	err := q.OrderExpr("date ASC, start_time ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) ListForMember(ctx context.Context, email, date string) ([]domain.Booking, error) {
	var rows []domain.Booking
	q := r.db.NewSelect().
		Model(&rows).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("owner_email = ?", email).
				WhereOr("participant_emails LIKE ?", "%"+email+"%")
		})
	if date != "" {
		q = q.Where("date = ?", date)
	}
	err := q.OrderExpr("date ASC, start_time ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Booking)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *BookingRepo) ListPendingReminders(ctx context.Context) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := r.db.NewSelect().
		Model(&rows).
		Where("status = ?", domain.BookingStatusPending).
		Where("reminder_sent = FALSE").
		OrderExpr("date ASC, start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewUpdate().
		Model((*domain.Booking)(nil)).
		Set("reminder_sent = TRUE").
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// InScopeTransaction serializes all writers for one room (or one personal
// agenda) behind an advisory lock, so the conflict scan and the insert that
// follows it cannot interleave with another request for the same scope.
func (r *BookingRepo) InScopeTransaction(ctx context.Context, scope store.Scope, fn func(ctx context.Context, tx store.BookingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockScope(ctx, tx, scope); err != nil {
			return err
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

func lockScope(ctx context.Context, tx bun.Tx, scope store.Scope) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", scope.LockKey()).Exec(ctx)
	return err
}

func (t bookingTx) ListSameDay(ctx context.Context, scope store.Scope, date string, excludeID uuid.UUID) ([]domain.Booking, error) {
	var rows []domain.Booking
	q := t.tx.NewSelect().
		Model(&rows).
		Where("room_id = ?", scope.RoomID).
		Where("date = ?", date)
	if scope.Personal() {
		q = q.Where("owner_email = ?", scope.OwnerEmail)
	}
	if excludeID != uuid.Nil {
		q = q.Where("id != ?", excludeID)
	}
	err := q.OrderExpr("start_time ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (t bookingTx) CreateBookings(ctx context.Context, bookings []domain.Booking) ([]domain.Booking, error) {
	if len(bookings) == 0 {
		return nil, nil
	}
	rows := make([]domain.Booking, len(bookings))
	copy(rows, bookings)
	if _, err := t.tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
		// 23505: a duplicate (provider, external_id) pair hit the dedup
		// index.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	return rows, nil
}

func (t bookingTx) UpdateSlot(ctx context.Context, id uuid.UUID, date, startTime, endTime string) (domain.Booking, error) {
	res, err := t.tx.NewUpdate().
		Model((*domain.Booking)(nil)).
		Set("date = ?", date).
		Set("start_time = ?", startTime).
		Set("end_time = ?", endTime).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return domain.Booking{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Booking{}, err
	}
	if affected == 0 {
		return domain.Booking{}, store.ErrNotFound
	}

	var row domain.Booking
	err = t.tx.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.Booking{}, err
	}
	return row, nil
}
