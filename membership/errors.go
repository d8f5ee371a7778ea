package membership

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate is returned when a date string cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrUnknownPeriod is returned by ParsePeriod for names outside the
	// enumeration. Free-text labels never produce it; see PeriodFromLabel.
	ErrUnknownPeriod = errors.New("unknown period")
)

// DateError carries the rejected input.
type DateError struct {
	Input string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q (use YYYY-MM-DD or RFC3339)", e.Input)
}

func (e *DateError) Unwrap() error {
	return ErrInvalidDate
}
