package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

type ServerConfig struct {
	Addr              string
	JWTSecret         string
	RateLimitRequests int
	RateLimitWindow   int
}

type Server struct {
	echo *echo.Echo
	addr string
	log  *slog.Logger
}

func NewServer(cfg ServerConfig, bookingsSvc bookingService, holidaySvc holidayService, rdb *redis.Client, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http.server"))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(Auth(cfg.JWTSecret))

	bookingsHandler := NewBookingsHandler(bookingsSvc, log)
	holidaysHandler := NewHolidaysHandler(holidaySvc, log)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/api/holidays", holidaysHandler.List)
	e.GET("/api/bookings", bookingsHandler.List)
	e.POST("/api/bookings", bookingsHandler.Create, RateLimit(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow, log))
	e.PATCH("/api/bookings/:id", bookingsHandler.Reschedule)
	e.DELETE("/api/bookings/:id", bookingsHandler.Cancel)

	return &Server{echo: e, addr: cfg.Addr, log: log}
}

func (s *Server) Start() error {
	s.log.Info("http server listening", slog.String("addr", s.addr))
	return s.echo.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
