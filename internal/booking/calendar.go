// Package booking carries the booking-cycle rules: campaigns run in fixed
// half-month (1-15, 16-30) or full-month (1-30) cycles, and every month is
// treated as 30 days. February rolls the "30th" marker into early March the
// same way the hardware-facing calendar always has; callers rely on that.
package booking

import (
	"fmt"
	"time"

	"fleetboard/internal/models"
)

// SlotsPerCycle is the maximum number of concurrent campaigns a single
// cycle on a single truck may hold.
const SlotsPerCycle = 7

const (
	CodeInvalidStartDate          = "InvalidStartDate"
	CodeInvalidPackageCombination = "InvalidPackageCombination"
)

// ValidationError reports a disallowed start date or date/package mismatch.
// It never accompanies a mutation.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CycleWindow is one half-month window on the booking calendar.
type CycleWindow struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	CycleNumber int       `json:"cycle_number"`
}

func (w CycleWindow) String() string {
	return fmt.Sprintf("%s - %s", w.Start.Format("Jan 2"), w.End.Format("Jan 2"))
}

// DayStart normalizes t to its day boundary in t's own location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Validate checks the start date against the cycle rules and derives the end
// date plus the cycle identity for the booking. Pure; no I/O.
func Validate(start time.Time, pkg models.PackageType) (time.Time, models.BookingCycle, error) {
	start = DayStart(start)
	day := start.Day()

	if day != 1 && day != 16 {
		return time.Time{}, models.BookingCycle{}, &ValidationError{
			Code:    CodeInvalidStartDate,
			Message: "campaigns can only start on 1st or 16th of each month",
		}
	}

	if pkg == models.PackageFullMonth && day == 16 {
		return time.Time{}, models.BookingCycle{}, &ValidationError{
			Code:    CodeInvalidPackageCombination,
			Message: "full month campaigns can only start on 1st of month",
		}
	}

	end, err := EndDateFor(start, pkg)
	if err != nil {
		return time.Time{}, models.BookingCycle{}, err
	}

	cycle := models.BookingCycle{
		CycleNumber: 1,
		Month:       int(start.Month()),
		Year:        start.Year(),
	}
	if day == 16 {
		cycle.CycleNumber = 2
	}

	return end, cycle, nil
}

// EndDateFor derives the end date from the fixed rule table:
// half_month from the 1st ends on the 15th, half_month from the 16th and
// full_month both end on the "30th" of the start month.
func EndDateFor(start time.Time, pkg models.PackageType) (time.Time, error) {
	start = DayStart(start)
	day := start.Day()

	switch pkg {
	case models.PackageHalfMonth:
		switch day {
		case 1:
			return dateOf(start, 15), nil
		case 16:
			return dateOf(start, 30), nil
		}
	case models.PackageFullMonth:
		if day == 1 {
			return dateOf(start, 30), nil
		}
	}

	return time.Time{}, &ValidationError{
		Code:    CodeInvalidPackageCombination,
		Message: fmt.Sprintf("invalid package type %q for start day %d", pkg, day),
	}
}

// WindowsFor returns the cycle windows a booking occupies. A half_month
// booking occupies exactly one window of its month; full_month occupies both.
func WindowsFor(start time.Time, pkg models.PackageType) []CycleWindow {
	start = DayStart(start)

	if pkg == models.PackageFullMonth {
		return []CycleWindow{
			firstHalf(start),
			secondHalf(start),
		}
	}

	if start.Day() == 16 {
		return []CycleWindow{secondHalf(start)}
	}
	return []CycleWindow{firstHalf(start)}
}

// MonthWindows returns both cycle windows of the month containing t.
func MonthWindows(t time.Time) (CycleWindow, CycleWindow) {
	return firstHalf(t), secondHalf(t)
}

func firstHalf(t time.Time) CycleWindow {
	return CycleWindow{
		Start:       dateOf(t, 1),
		End:         dateOf(t, 15),
		CycleNumber: 1,
	}
}

func secondHalf(t time.Time) CycleWindow {
	return CycleWindow{
		Start:       dateOf(t, 16),
		End:         dateOf(t, 30),
		CycleNumber: 2,
	}
}

func dateOf(t time.Time, day int) time.Time {
	return time.Date(t.Year(), t.Month(), day, 0, 0, 0, 0, t.Location())
}
