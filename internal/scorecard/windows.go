package scorecard

import (
	"fmt"
	"time"

	"bscard/internal/errors"
)

// WindowCount is the number of trailing monthly windows in the model.
const WindowCount = 6

// Window is one trailing ~30-day period. Both boundaries are inclusive:
// a transaction dated exactly on End belongs to the window, one dated
// the next day does not.
type Window struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the inclusive day count of the window.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// String returns the window label.
func (w Window) String() string {
	return w.Label
}

// WindowSet holds the six scoring windows ordered most-recent-first:
// index 0 is M1, index 5 is M6. The windows tile contiguously backward
// from the M1 end date.
type WindowSet [WindowCount]Window

// DatePair is one explicit start/end boundary pair from configuration.
type DatePair struct {
	Start time.Time
	End   time.Time
}

// WindowsFromDates builds a WindowSet from six explicit boundary
// pairs ordered M1 first, validating ordering within each window and
// backward contiguity between windows. Invalid boundaries yield a
// ConfigurationError.
func WindowsFromDates(pairs [WindowCount]DatePair) (WindowSet, error) {
	var ws WindowSet
	for i, p := range pairs {
		label := fmt.Sprintf("M%d", i+1)
		start := midnightUTC(p.Start)
		end := midnightUTC(p.End)
		if start.IsZero() || end.IsZero() {
			return WindowSet{}, errors.NewConfigurationError(
				fmt.Sprintf("window %s: missing boundary date", label))
		}
		if end.Before(start) {
			return WindowSet{}, errors.NewConfigurationError(
				fmt.Sprintf("window %s: end %s before start %s",
					label, end.Format("2006-01-02"), start.Format("2006-01-02")))
		}
		ws[i] = Window{Label: label, Start: start, End: end}
	}

	// Tiling invariant: End(Mi) = Start(Mi-1) - 1 day for i > 1.
	for i := 1; i < WindowCount; i++ {
		want := ws[i-1].Start.AddDate(0, 0, -1)
		if !ws[i].End.Equal(want) {
			return WindowSet{}, errors.NewConfigurationError(
				fmt.Sprintf("windows %s and %s are not contiguous: %s end %s, expected %s",
					ws[i].Label, ws[i-1].Label, ws[i].Label,
					ws[i].End.Format("2006-01-02"), want.Format("2006-01-02")))
		}
	}
	return ws, nil
}

// TileWindows builds six contiguous windows of lengthDays each, tiling
// backward from asOf minus offsetDays (that date is the M1 end).
func TileWindows(asOf time.Time, offsetDays, lengthDays int) (WindowSet, error) {
	if asOf.IsZero() {
		return WindowSet{}, errors.NewConfigurationError("as-of date is required")
	}
	if lengthDays < 1 {
		return WindowSet{}, errors.NewConfigurationError(
			fmt.Sprintf("window length must be positive, got %d", lengthDays))
	}
	if offsetDays < 0 {
		return WindowSet{}, errors.NewConfigurationError(
			fmt.Sprintf("as-of offset must not be negative, got %d", offsetDays))
	}

	var ws WindowSet
	end := midnightUTC(asOf).AddDate(0, 0, -offsetDays)
	for i := 0; i < WindowCount; i++ {
		start := end.AddDate(0, 0, -(lengthDays - 1))
		ws[i] = Window{Label: fmt.Sprintf("M%d", i+1), Start: start, End: end}
		end = start.AddDate(0, 0, -1)
	}
	return ws, nil
}

// Span returns the full covered range, M6 start through M1 end.
func (ws WindowSet) Span() (start, end time.Time) {
	return ws[WindowCount-1].Start, ws[0].End
}

// Index returns the zero-based window index containing d, or -1 when d
// falls outside every window.
func (ws WindowSet) Index(d time.Time) int {
	for i, w := range ws {
		if w.Contains(d) {
			return i
		}
	}
	return -1
}

// midnightUTC truncates a timestamp to its calendar day in UTC.
func midnightUTC(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
