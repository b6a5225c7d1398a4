package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"storehours/internal/civiltime"
	"storehours/internal/export"
	"storehours/internal/greeting"
	"storehours/internal/hours"
	"storehours/internal/metrics"
	"storehours/internal/model"
	"storehours/internal/reminders"
	"storehours/internal/slots"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type calendarResponse struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Marks []hours.DayMark `json:"marks"`
}

type slotsResponse struct {
	Date     string           `json:"date"`
	Meal     string           `json:"meal"`
	Timezone string           `json:"timezone"`
	Slots    []slots.SlotInfo `json:"slots"`
}

type greetingResponse struct {
	Greeting        string `json:"greeting"`
	DisplayTimezone string `json:"display_timezone"`
	Timezone        string `json:"timezone"`
}

// loadSettings resolves the caller and their settings, writing the error
// response itself when that fails.
func (s *Server) loadSettings(w http.ResponseWriter, r *http.Request) (*model.UserSettings, bool) {
	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	settings, err := s.userSettings(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("load settings failed")
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return nil, false
	}
	return settings, true
}

func (s *Server) sourceFailed(w http.ResponseWriter, err error) {
	s.logger.Error().Err(err).Msg("load store hours failed")
	writeError(w, http.StatusBadGateway, "failed to load store hours")
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("day")

	req := dayRequest{Date: chi.URLParam(r, "date")}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	settings, ok := s.loadSettings(w, r)
	if !ok {
		return
	}
	tz := displayTimezone(settings)
	p, _, err := s.projector(r.Context())
	if err != nil {
		s.sourceFailed(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p.SelectedDateInfo(req.Date, tz))
}

func (s *Server) handleDayRange(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("day_range")

	q := r.URL.Query()
	count, err := intParam(q, "count", hours.DefaultRangeDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req := dayRangeRequest{Start: q.Get("start"), Count: count}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	p, _, err := s.projector(r.Context())
	if err != nil {
		s.sourceFailed(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p.DayRange(req.Start, req.Count))
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("calendar")

	q := r.URL.Query()
	today, err := civiltime.CivilDate(s.conv.CurrentDateInTimezone(civiltime.ReferenceTimezone), time.UTC)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read current date")
		return
	}
	year, err := intParam(q, "year", today.Year())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	month, err := intParam(q, "month", int(today.Month()))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req := calendarRequest{Year: year, Month: month, Selected: q.Get("selected")}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	p, _, err := s.projector(r.Context())
	if err != nil {
		s.sourceFailed(w, err)
		return
	}
	marks := p.MonthMarks(req.Year, time.Month(req.Month), req.Selected)
	if marks == nil {
		marks = []hours.DayMark{}
	}
	writeJSON(w, http.StatusOK, calendarResponse{Year: req.Year, Month: req.Month, Marks: marks})
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("slots")

	q := r.URL.Query()
	req := slotsRequest{Date: q.Get("date"), Meal: q.Get("meal")}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	meal, err := slots.ParseMealPeriod(req.Meal)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, _, err := s.projector(r.Context())
	if err != nil {
		s.sourceFailed(w, err)
		return
	}
	available := p.AvailableSlots(meal, req.Date)
	metrics.AddSlotsServed(string(meal), len(available))

	writeJSON(w, http.StatusOK, slotsResponse{
		Date:     req.Date,
		Meal:     string(meal),
		Timezone: civiltime.ReferenceTimezone,
		Slots:    slots.ToSlotInfo(available),
	})
}

func (s *Server) handleGreeting(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("greeting")

	settings, ok := s.loadSettings(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, greetingResponse{
		Greeting:        greeting.Greeting(s.conv.Now(), settings.UseDeviceTimezone, settings.DeviceTimezone),
		DisplayTimezone: greeting.DisplayTimezone(settings.UseDeviceTimezone, settings.DeviceTimezone),
		Timezone:        displayTimezone(settings),
	})
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("week")

	weekly, err := s.source.StoreTimes(r.Context())
	if err != nil {
		s.sourceFailed(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hours.GroupByDay(weekly))
}

func (s *Server) handleReminders(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reminders")

	weekly, err := s.source.StoreTimes(r.Context())
	if err != nil {
		s.sourceFailed(w, err)
		return
	}
	planned := reminders.Plan(weekly, s.conv.Now(), s.lead)
	if planned == nil {
		planned = []reminders.Reminder{}
	}
	writeJSON(w, http.StatusOK, planned)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("get_settings")

	settings, ok := s.loadSettings(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("put_settings")

	userID, err := userIDFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if userID == 0 {
		writeError(w, http.StatusBadRequest, headerUserID+" header is required")
		return
	}
	if s.settings == nil {
		writeError(w, http.StatusServiceUnavailable, "settings store not configured")
		return
	}

	var req settingsRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if req.UseDeviceTimezone && req.DeviceTimezone == "" {
		writeError(w, http.StatusBadRequest, "device_timezone is required when use_device_timezone is true")
		return
	}

	if err := s.settings.UpsertUserSettings(r.Context(), userID, req.UseDeviceTimezone, req.DeviceTimezone); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("save settings failed")
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	settings, err := s.settings.GetUserSettings(r.Context(), userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("load settings failed")
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")

	q := r.URL.Query()
	req := exportRequest{Start: q.Get("start"), End: q.Get("end")}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if err := validateExportRange(req.Start, req.End); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	settings, ok := s.loadSettings(w, r)
	if !ok {
		return
	}
	tz := displayTimezone(settings)
	p, weekly, err := s.projector(r.Context())
	if err != nil {
		s.sourceFailed(w, err)
		return
	}

	xw := export.NewExcelizeWriter()
	defer xw.Close()
	if err := export.HoursReport(xw, p, weekly, req.Start, req.End, tz); err != nil {
		s.logger.Error().Err(err).Msg("build hours report failed")
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	var buf bytes.Buffer
	if err := xw.Save(&buf); err != nil {
		s.logger.Error().Err(err).Msg("save hours report failed")
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="store-hours_%s_%s.xlsx"`, req.Start, req.End))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func validateExportRange(start, end string) error {
	from, err := time.Parse(civiltime.DateLayout, start)
	if err != nil {
		return errors.New("invalid start format; expected YYYY-MM-DD")
	}
	to, err := time.Parse(civiltime.DateLayout, end)
	if err != nil {
		return errors.New("invalid end format; expected YYYY-MM-DD")
	}
	if to.Before(from) {
		return errors.New("end must not be before start")
	}
	if to.Sub(from) > (export.MaxReportDays-1)*24*time.Hour {
		return fmt.Errorf("date range too large; max %d days", export.MaxReportDays)
	}
	return nil
}
