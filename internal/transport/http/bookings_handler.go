package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"roomdesk/internal/domain"
	"roomdesk/internal/service/bookings"
	"roomdesk/internal/store"
)

type bookingService interface {
	Create(ctx context.Context, caller bookings.Caller, in bookings.CreateInput) (bookings.CreateResult, error)
	Reschedule(ctx context.Context, caller bookings.Caller, in bookings.RescheduleInput) (domain.Booking, error)
	Cancel(ctx context.Context, caller bookings.Caller, id uuid.UUID) error
	ListRoom(ctx context.Context, roomID, date string) ([]domain.Booking, error)
	ListMine(ctx context.Context, caller bookings.Caller, date string) ([]domain.Booking, error)
}

type BookingsHandler struct {
	svc bookingService
	log *slog.Logger
}

func NewBookingsHandler(svc bookingService, log *slog.Logger) *BookingsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BookingsHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.bookings")),
	}
}

type recurrencePayload struct {
	Mode     string `json:"mode"`
	Until    string `json:"until"`
	WeekDays []int  `json:"weekDays"`
}

type createPayload struct {
	RoomID       string             `json:"roomId"`
	OwnerName    string             `json:"ownerName"`
	Participants string             `json:"participants"`
	Date         string             `json:"date"`
	StartTime    string             `json:"startTime"`
	EndTime      string             `json:"endTime"`
	Title        string             `json:"title"`
	Recurrence   *recurrencePayload `json:"recurrence"`
}

type bookingPayload struct {
	ID           string `json:"id"`
	RoomID       string `json:"roomId"`
	RoomName     string `json:"roomName"`
	OwnerName    string `json:"ownerName"`
	OwnerEmail   string `json:"ownerEmail"`
	Participants string `json:"participants"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Title        string `json:"title"`
	Status       string `json:"status"`
}

func toPayload(b domain.Booking) bookingPayload {
	return bookingPayload{
		ID:           b.ID.String(),
		RoomID:       b.RoomID,
		RoomName:     b.RoomName,
		OwnerName:    b.OwnerName,
		OwnerEmail:   b.OwnerEmail,
		Participants: b.ParticipantEmails,
		Date:         b.Date,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Title:        b.Title,
		Status:       string(b.Status),
	}
}

func (h *BookingsHandler) Create(c echo.Context) error {
	log := h.log.With(slog.String("op", "create"))

	var payload createPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed request body"})
	}

	in := bookings.CreateInput{
		RoomID:               payload.RoomID,
		OwnerName:            payload.OwnerName,
		ParticipantEmailsRaw: payload.Participants,
		Date:                 payload.Date,
		StartTime:            payload.StartTime,
		EndTime:              payload.EndTime,
		Title:                payload.Title,
	}
	if payload.Recurrence != nil {
		in.Recurrence = &domain.Recurrence{
			Mode:     domain.RecurrenceMode(payload.Recurrence.Mode),
			Until:    payload.Recurrence.Until,
			WeekDays: payload.Recurrence.WeekDays,
		}
	}

	res, err := h.svc.Create(c.Request().Context(), callerFrom(c), in)
	if err != nil {
		return writeError(c, log, err)
	}

	c.Response().Header().Set("X-Created-Count", strconv.Itoa(res.Occurrences))
	return c.JSON(http.StatusCreated, toPayload(res.Booking))
}

func (h *BookingsHandler) List(c echo.Context) error {
	log := h.log.With(slog.String("op", "list"))

	date := c.QueryParam("date")
	if c.QueryParam("scope") == "my" {
		list, err := h.svc.ListMine(c.Request().Context(), callerFrom(c), date)
		if err != nil {
			return writeError(c, log, err)
		}
		return c.JSON(http.StatusOK, toPayloads(list))
	}

	roomID := c.QueryParam("roomId")
	if roomID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "roomId is required"})
	}
	list, err := h.svc.ListRoom(c.Request().Context(), roomID, date)
	if err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, toPayloads(list))
}

type reschedulePayload struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

func (h *BookingsHandler) Reschedule(c echo.Context) error {
	log := h.log.With(slog.String("op", "reschedule"))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	var payload reschedulePayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed request body"})
	}

	updated, err := h.svc.Reschedule(c.Request().Context(), callerFrom(c), bookings.RescheduleInput{
		ID:        id,
		Date:      payload.Date,
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
	})
	if err != nil {
		return writeError(c, log, err)
	}
	return c.JSON(http.StatusOK, toPayload(updated))
}

func (h *BookingsHandler) Cancel(c echo.Context) error {
	log := h.log.With(slog.String("op", "cancel"))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	if err := h.svc.Cancel(c.Request().Context(), callerFrom(c), id); err != nil {
		return writeError(c, log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func toPayloads(list []domain.Booking) []bookingPayload {
	out := make([]bookingPayload, 0, len(list))
	for _, b := range list {
		out = append(out, toPayload(b))
	}
	return out
}

func writeError(c echo.Context, log *slog.Logger, err error) error {
	var vErr *bookings.ValidationError
	if errors.As(err, &vErr) {
		log.Warn("invalid request", slog.Any("err", err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Error()})
	}
	var cErr *bookings.ConflictError
	if errors.As(err, &cErr) {
		log.Info("booking conflict", slog.Any("err", err))
		return c.JSON(http.StatusConflict, echo.Map{"error": cErr.Error()})
	}
	if errors.Is(err, bookings.ErrUnauthenticated) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	if errors.Is(err, bookings.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed"})
	}
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	log.Error("request failed", slog.Any("err", err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
