package storeapi

import (
	"github.com/go-playground/validator/v10"

	"storehours/internal/model"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(weeklyHoursValidation, model.WeeklyHours{})
	v.RegisterStructValidation(overrideValidation, model.Override{})
	return v
}

// Open entries must carry both times.
func weeklyHoursValidation(sl validator.StructLevel) {
	w := sl.Current().Interface().(model.WeeklyHours)
	requireTimes(sl, w.IsOpen, w.StartTime, w.EndTime)
}

func overrideValidation(sl validator.StructLevel) {
	o := sl.Current().Interface().(model.Override)
	requireTimes(sl, o.IsOpen, o.StartTime, o.EndTime)
}

func requireTimes(sl validator.StructLevel, isOpen bool, start, end string) {
	if !isOpen {
		return
	}
	if start == "" {
		sl.ReportError(start, "StartTime", "start_time", "required_when_open", "")
	}
	if end == "" {
		sl.ReportError(end, "EndTime", "end_time", "required_when_open", "")
	}
}
