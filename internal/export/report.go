// Package export renders store hours as spreadsheet reports.
package export

import (
	"fmt"
	"time"

	"storehours/internal/civiltime"
	"storehours/internal/hours"
	"storehours/internal/model"
)

// MaxReportDays caps the date range of one report.
const MaxReportDays = 90

const (
	sheetDaily  = "Daily hours"
	sheetWeekly = "Weekly schedule"
)

// HoursReport writes two sheets: one row per date in [start, end] with the
// effective hours, then the recurring weekly schedule. Dates are
// "YYYY-MM-DD"; hours are shown in store time and in displayTz.
func HoursReport(w ExcelWriter, p *hours.Projector, weekly []model.WeeklyHours, start, end, displayTz string) error {
	from, err := civiltime.CivilDate(start, time.UTC)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	to, err := civiltime.CivilDate(end, time.UTC)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("end %s is before start %s", end, start)
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > MaxReportDays {
		return fmt.Errorf("range of %d days exceeds %d", days, MaxReportDays)
	}
	if displayTz == "" {
		displayTz = civiltime.ReferenceTimezone
	}

	if err := w.AddSheet(sheetDaily); err != nil {
		return err
	}
	header := []string{"Date", "Day", "Status", "Store hours (" + civiltime.ReferenceTimezone + ")", "Hours (" + displayTz + ")"}
	if err := w.WriteHeader(header); err != nil {
		return err
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		ds := d.Format(civiltime.DateLayout)
		status := "Closed"
		if p.IsOpenOnDate(ds) {
			status = "Open"
		}
		row := []any{
			ds,
			hours.DayName(int(d.Weekday())),
			status,
			p.FormatDayHours(ds, civiltime.ReferenceTimezone),
			p.FormatDayHours(ds, displayTz),
		}
		if err := w.WriteRow(row); err != nil {
			return err
		}
	}

	if err := w.AddSheet(sheetWeekly); err != nil {
		return err
	}
	if err := w.WriteHeader([]string{"Day", "Status", "Hours"}); err != nil {
		return err
	}
	for _, day := range hours.GroupByDay(weekly) {
		status := "Closed"
		if day.IsOpen {
			status = "Open"
		}
		if err := w.WriteRow([]any{day.DayName, status, day.HoursText}); err != nil {
			return err
		}
	}
	return nil
}
