package ledger

import (
	"time"

	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
)

// Window is an inclusive range of calendar dates.
type Window struct {
	Begin time.Time
	End   time.Time
}

// ParseWindow parses both bounds as YYYY-MM-DD. Each bound must be exactly ten
// characters and End must not precede Begin.
func ParseWindow(begin, end string) (Window, error) {
	b, err := parseBound("export.begin", begin)
	if err != nil {
		return Window{}, err
	}
	e, err := parseBound("export.end", end)
	if err != nil {
		return Window{}, err
	}
	if e.Before(b) {
		return Window{}, errors.NewValidationError("export.end", end, "end date is before begin date")
	}
	return Window{Begin: b, End: e}, nil
}

func parseBound(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.NewValidationError(field, value, "date is required")
	}
	if len(value) != constants.DateFormatLength {
		return time.Time{}, errors.NewValidationError(field, value, "date must be YYYY-MM-DD")
	}
	t, err := time.Parse(constants.DateFormat, value)
	if err != nil {
		return time.Time{}, errors.NewValidationError(field, value, "date must be YYYY-MM-DD")
	}
	return t, nil
}

// Range returns [begin 00:00:00, end 23:59:59] in loc.
func (w Window) Range(loc *time.Location) (from, to time.Time) {
	from = time.Date(w.Begin.Year(), w.Begin.Month(), w.Begin.Day(), 0, 0, 0, 0, loc)
	to = time.Date(w.End.Year(), w.End.Month(), w.End.Day(), 23, 59, 59, 0, loc)
	return from, to
}

// String returns "begin..end".
func (w Window) String() string {
	return w.Begin.Format(constants.DateFormat) + ".." + w.End.Format(constants.DateFormat)
}
