// Package holiday answers "is this date a national holiday" from a remote
// yearly feed, cached per calendar year. Callers are expected to treat a
// failing oracle as "not a holiday" (fail-open); the oracle itself only
// reports the failure.
package holiday

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// DefaultTTL is the coarse cache lifetime for one year's holiday set.
const DefaultTTL = 24 * time.Hour

type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// Source fetches the national holidays of a calendar year.
type Source interface {
	FetchYear(ctx context.Context, year int) ([]Holiday, error)
}

// Cache stores a year's holiday list. Implementations do not serialize
// concurrent population of the same year; a duplicated fetch is harmless
// because the feed is stable for a given year.
type Cache interface {
	Get(ctx context.Context, year int) ([]Holiday, bool)
	Set(ctx context.Context, year int, holidays []Holiday, ttl time.Duration)
}

type Oracle struct {
	source Source
	cache  Cache
	ttl    time.Duration
	log    *slog.Logger
}

func NewOracle(source Source, cache Cache, log *slog.Logger) *Oracle {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Oracle{
		source: source,
		cache:  cache,
		ttl:    DefaultTTL,
		log:    log.With(slog.String("component", "holiday.oracle")),
	}
}

// IsNationalHoliday reports whether date (ISO YYYY-MM-DD) is a national
// holiday. A date whose year cannot be parsed is not a holiday. The error is
// non-nil only when the upstream fetch failed.
func (o *Oracle) IsNationalHoliday(ctx context.Context, date string) (bool, error) {
	year, ok := yearOf(date)
	if !ok {
		return false, nil
	}
	holidays, err := o.yearSet(ctx, year)
	if err != nil {
		return false, err
	}
	for _, h := range holidays {
		if h.Date == date {
			return true, nil
		}
	}
	return false, nil
}

// ListRange returns the national holidays between start and end inclusive,
// resolved against the starting date's year.
func (o *Oracle) ListRange(ctx context.Context, start, end string) ([]Holiday, error) {
	year, ok := yearOf(start)
	if !ok {
		return nil, nil
	}
	holidays, err := o.yearSet(ctx, year)
	if err != nil {
		return nil, err
	}
	out := make([]Holiday, 0, len(holidays))
	for _, h := range holidays {
		if h.Date >= start && h.Date <= end {
			out = append(out, h)
		}
	}
	return out, nil
}

func (o *Oracle) yearSet(ctx context.Context, year int) ([]Holiday, error) {
	if holidays, ok := o.cache.Get(ctx, year); ok {
		return holidays, nil
	}
	holidays, err := o.source.FetchYear(ctx, year)
	if err != nil {
		o.log.Warn("holiday feed unavailable", slog.Int("year", year), slog.Any("err", err))
		return nil, err
	}
	o.cache.Set(ctx, year, holidays, o.ttl)
	return holidays, nil
}

func yearOf(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}
