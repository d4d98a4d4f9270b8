package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"roomdesk/internal/domain"
	"roomdesk/internal/store"
)

func TestPostgresIntegration_BookingBatchListUpdateDelete(t *testing.T) {
	databaseURL := strings.TrimSpace(os.Getenv("ROOMDESK_TEST_DATABASE_URL"))
	if databaseURL == "" {
		t.Skip("ROOMDESK_TEST_DATABASE_URL not set")
	}

	db, err := Open(databaseURL, PoolConfig{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(db)
	})

	schema := "roomdesk_test_" + randomHex(t, 8)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = db.NewRaw("DROP SCHEMA IF EXISTS " + schema + " CASCADE").Exec(ctx)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewRaw("CREATE SCHEMA " + schema).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewRaw("SET LOCAL search_path TO " + schema).Exec(ctx); err != nil {
			return err
		}
		if err := applyMigrations(ctx, tx); err != nil {
			return err
		}

		c := bookingTx{tx: tx}
		scope := store.RoomScope("meeting-upper")

		rows, err := c.CreateBookings(ctx, []domain.Booking{
			{
				RoomID:     "meeting-upper",
				RoomName:   "Meeting room - Upper floor",
				OwnerName:  "Ana",
				OwnerEmail: "ana@example.com",
				Date:       "2025-03-10",
				StartTime:  "09:00",
				EndTime:    "10:00",
				Title:      "standup",
			},
			{
				RoomID:     "meeting-upper",
				RoomName:   "Meeting room - Upper floor",
				OwnerName:  "Ana",
				OwnerEmail: "ana@example.com",
				Date:       "2025-03-11",
				StartTime:  "09:00",
				EndTime:    "10:00",
				Title:      "standup",
			},
		})
		if err != nil {
			return err
		}
		if len(rows) != 2 {
			return fmt.Errorf("created = %d rows, want 2", len(rows))
		}
		for _, r := range rows {
			if r.ID == uuid.Nil {
				return fmt.Errorf("expected generated id")
			}
			if r.Status != domain.BookingStatusPending {
				return fmt.Errorf("status = %q, want pending", r.Status)
			}
		}

		sameDay, err := c.ListSameDay(ctx, scope, "2025-03-10", uuid.Nil)
		if err != nil {
			return err
		}
		if len(sameDay) != 1 {
			return fmt.Errorf("same day rows = %d, want 1", len(sameDay))
		}

		excluded, err := c.ListSameDay(ctx, scope, "2025-03-10", rows[0].ID)
		if err != nil {
			return err
		}
		if len(excluded) != 0 {
			return fmt.Errorf("excluded rows = %d, want 0", len(excluded))
		}

		moved, err := c.UpdateSlot(ctx, rows[0].ID, "2025-03-12", "11:00", "12:00")
		if err != nil {
			return err
		}
		if moved.Date != "2025-03-12" || moved.StartTime != "11:00" || moved.EndTime != "12:00" {
			return fmt.Errorf("moved booking = %s %s-%s", moved.Date, moved.StartTime, moved.EndTime)
		}

		if _, err := c.UpdateSlot(ctx, uuid.New(), "2025-03-12", "11:00", "12:00"); err != store.ErrNotFound {
			return fmt.Errorf("update missing err = %v, want %v", err, store.ErrNotFound)
		}

		return nil
	})
	if err != nil {
		t.Fatalf("tx error: %v", err)
	}
}

func randomHex(t *testing.T, bytesLen int) string {
	t.Helper()
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("rand.Read error: %v", err)
	}
	return hex.EncodeToString(b)
}

type rawExecutor interface {
	NewRaw(query string, args ...any) *bun.RawQuery
}

func applyMigrations(ctx context.Context, exec rawExecutor) error {
	dir, err := migrationsDir()
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type mig struct {
		name string
		path string
	}
	migs := make([]mig, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		migs = append(migs, mig{name: e.Name(), path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(migs, func(i, j int) bool { return migs[i].name < migs[j].name })

	for _, m := range migs {
		b, err := os.ReadFile(m.path)
		if err != nil {
			return err
		}
		upSQL, err := extractGooseUp(string(b))
		if err != nil {
			return err
		}
		for _, stmt := range splitSQLStatements(upSQL) {
			if _, err := exec.NewRaw(stmt).Exec(ctx); err != nil {
				return err
			}
		}
	}

	return nil
}

func migrationsDir() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("runtime.Caller failed")
	}
	base := filepath.Dir(file)
	return filepath.Clean(filepath.Join(base, "..", "..", "..", "migrations")), nil
}

func extractGooseUp(sql string) (string, error) {
	upMarker := "-- +goose Up"
	downMarker := "-- +goose Down"

	upIdx := strings.Index(sql, upMarker)
	if upIdx < 0 {
		return "", fmt.Errorf("missing goose up marker")
	}
	afterUp := sql[upIdx+len(upMarker):]
	afterUp = strings.TrimLeft(afterUp, "\r\n")

	downIdx := strings.Index(afterUp, downMarker)
	if downIdx < 0 {
		return strings.TrimSpace(afterUp), nil
	}
	return strings.TrimSpace(afterUp[:downIdx]), nil
}

func splitSQLStatements(sql string) []string {
	parts := strings.Split(sql, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
