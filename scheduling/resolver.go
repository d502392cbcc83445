package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"trattoria-backend/models"
)

// ScheduleIndex maps a calendar weekday (time.Weekday, Sunday=0) onto the
// schedule's Monday=0 .. Sunday=6 indexing. Every place a date is checked
// against the weekly schedule must go through this remap.
func ScheduleIndex(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}

// ParseClock converts a strict "HH:MM" string into minutes since midnight.
func ParseClock(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", clock)
	}
	return hours*60 + minutes, nil
}

// Resolution is the verdict of matching a requested time against one weekday's
// schedule entry.
type Resolution struct {
	IsOpen     bool
	InShift    bool
	ShiftIndex int // -1 when no shift matches
}

// Resolve tests clock against the entry's shifts. Containment is half-open:
// a time equal to a shift's close belongs to no shift. First matching shift
// wins; shifts are assumed ordered and non-overlapping. Pure function, no I/O.
func Resolve(clock string, entry *models.WeeklySchedule) (Resolution, error) {
	res := Resolution{ShiftIndex: -1}
	if entry == nil {
		return res, ErrConfigurationMissing
	}

	minutes, err := ParseClock(clock)
	if err != nil {
		return res, err
	}

	res.IsOpen = entry.IsOpen
	if !entry.IsOpen {
		return res, nil
	}

	for i, shift := range entry.Shifts {
		open, err := ParseClock(shift.OpenTime)
		if err != nil {
			return res, fmt.Errorf("shift %d has invalid open time: %w", i, err)
		}
		closing, err := ParseClock(shift.CloseTime)
		if err != nil {
			return res, fmt.Errorf("shift %d has invalid close time: %w", i, err)
		}
		if minutes >= open && minutes < closing {
			res.InShift = true
			res.ShiftIndex = i
			return res, nil
		}
	}
	return res, nil
}
