package scheduling

import (
	"errors"
	"fmt"
)

// ErrConfigurationMissing is returned when a weekday has no schedule entry and
// one cannot be created.
var ErrConfigurationMissing = errors.New("no schedule configured for this weekday")

// ClosedDayError rejects a request landing on a closed weekday or a holiday.
type ClosedDayError struct {
	Date    string
	Holiday bool
}

func (e *ClosedDayError) Error() string {
	if e.Holiday {
		return fmt.Sprintf("the restaurant is closed on %s (holiday)", e.Date)
	}
	return fmt.Sprintf("the restaurant is closed on %s", e.Date)
}

// OutsideShiftError rejects a time that falls in no service shift of an open day.
type OutsideShiftError struct {
	Clock string
}

func (e *OutsideShiftError) Error() string {
	return fmt.Sprintf("%s is outside every service shift", e.Clock)
}

// SlotFullError rejects a slot that already holds SlotCapacity active orders.
// Callers may resubmit with the force flag to override.
type SlotFullError struct {
	Clock    string
	Capacity int
}

func (e *SlotFullError) Error() string {
	return fmt.Sprintf("slot %s is full (capacity %d)", e.Clock, e.Capacity)
}
