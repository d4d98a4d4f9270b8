package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"roomdesk/internal/holiday"
)

type holidayService interface {
	ListRange(ctx context.Context, start, end string) ([]holiday.Holiday, error)
}

type HolidaysHandler struct {
	svc holidayService
	log *slog.Logger
}

func NewHolidaysHandler(svc holidayService, log *slog.Logger) *HolidaysHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HolidaysHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.holidays")),
	}
}

type holidayPayload struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// List serves the holidays within [start, end]. Feed failures degrade to an
// empty list so callers can always render a calendar.
func (h *HolidaysHandler) List(c echo.Context) error {
	start := c.QueryParam("start")
	end := c.QueryParam("end")
	if start == "" || end == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start and end are required"})
	}

	list, err := h.svc.ListRange(c.Request().Context(), start, end)
	if err != nil {
		h.log.Warn("holiday feed unavailable", slog.Any("err", err))
		list = nil
	}

	out := make([]holidayPayload, 0, len(list))
	for _, d := range list {
		out = append(out, holidayPayload{Date: d.Date, Name: d.Name})
	}
	return c.JSON(http.StatusOK, out)
}
