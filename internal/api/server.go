// Package api exposes store hours over HTTP/JSON.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"storehours/internal/civiltime"
	"storehours/internal/hours"
	"storehours/internal/model"
	"storehours/internal/reminders"
)

// HoursSource provides the raw weekly hours and overrides.
type HoursSource interface {
	StoreTimes(ctx context.Context) ([]model.WeeklyHours, error)
	StoreOverrides(ctx context.Context) ([]model.Override, error)
}

// SettingsStore persists per-user display settings.
type SettingsStore interface {
	GetUserSettings(ctx context.Context, userID int64) (*model.UserSettings, error)
	UpsertUserSettings(ctx context.Context, userID int64, useDevice bool, deviceTz string) error
}

// Options tunes the HTTP layer.
type Options struct {
	AllowedOrigins    []string
	RequestsPerMinute int
	ReminderLead      time.Duration
}

// Server routes API requests to the hours engine.
type Server struct {
	source   HoursSource
	settings SettingsStore
	conv     *civiltime.Converter
	validate *validator.Validate
	logger   *zerolog.Logger
	lead     time.Duration
	router   chi.Router
}

// NewServer wires handlers and middleware. settings may be nil, in which
// case every user sees store time.
func NewServer(source HoursSource, settings SettingsStore, conv *civiltime.Converter, opts Options, logger *zerolog.Logger) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if conv == nil {
		conv = civiltime.NewConverter(nil, logger)
	}
	if opts.ReminderLead <= 0 {
		opts.ReminderLead = reminders.DefaultLead
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		source:   source,
		settings: settings,
		conv:     conv,
		validate: newValidator(),
		logger:   logger,
		lead:     opts.ReminderLead,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", headerUserID, headerRequestID},
		ExposedHeaders: []string{headerRequestID},
		MaxAge:         300,
	}))
	if opts.RequestsPerMinute > 0 {
		r.Use(httprate.LimitByIP(opts.RequestsPerMinute, time.Minute))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/days", s.handleDayRange)
		r.Get("/days/{date}", s.handleDay)
		r.Get("/calendar", s.handleCalendar)
		r.Get("/slots", s.handleSlots)
		r.Get("/greeting", s.handleGreeting)
		r.Get("/week", s.handleWeek)
		r.Get("/reminders", s.handleReminders)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
		r.Get("/export.xlsx", s.handleExport)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// projector loads the current hours and builds a projector over them.
func (s *Server) projector(ctx context.Context) (*hours.Projector, []model.WeeklyHours, error) {
	weekly, err := s.source.StoreTimes(ctx)
	if err != nil {
		return nil, nil, err
	}
	overrides, err := s.source.StoreOverrides(ctx)
	if err != nil {
		return nil, nil, err
	}
	return hours.NewProjector(weekly, overrides, s.conv), weekly, nil
}

// userSettings returns the caller's settings, or defaults for anonymous
// callers and when no store is configured.
func (s *Server) userSettings(ctx context.Context, userID int64) (*model.UserSettings, error) {
	if s.settings == nil || userID == 0 {
		return &model.UserSettings{UserID: userID}, nil
	}
	return s.settings.GetUserSettings(ctx, userID)
}

// displayTimezone picks the zone hours are shown in. An unknown device zone
// falls back to store time.
func displayTimezone(settings *model.UserSettings) string {
	if settings == nil || !settings.UseDeviceTimezone || settings.DeviceTimezone == "" {
		return civiltime.ReferenceTimezone
	}
	if _, err := civiltime.LoadLocation(settings.DeviceTimezone); err != nil {
		return civiltime.ReferenceTimezone
	}
	return settings.DeviceTimezone
}
