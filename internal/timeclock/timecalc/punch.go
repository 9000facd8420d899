package timecalc

import "fmt"

// PunchKind identifies one of the four daily clock events.
type PunchKind string

const (
	PunchEntry      PunchKind = "entry"
	PunchLunchStart PunchKind = "lunch_start"
	PunchLunchEnd   PunchKind = "lunch_end"
	PunchExit       PunchKind = "exit"
)

// AllPunchKinds lists the punch kinds in chronological order.
var AllPunchKinds = []PunchKind{PunchEntry, PunchLunchStart, PunchLunchEnd, PunchExit}

// ParsePunchKind validates a raw punch kind string.
func ParsePunchKind(s string) (PunchKind, error) {
	switch PunchKind(s) {
	case PunchEntry, PunchLunchStart, PunchLunchEnd, PunchExit:
		return PunchKind(s), nil
	}
	return "", fmt.Errorf("unknown punch kind: %q", s)
}

// DaySchedule is the configured work window for one weekday.
// A nil field means the punch is not expected on that day. A day
// without entry and exit is non-working.
type DaySchedule struct {
	DayOfWeek  int     `json:"day_of_week"`
	EntryTime  *string `json:"entry_time,omitempty"`
	LunchStart *string `json:"lunch_start,omitempty"`
	LunchEnd   *string `json:"lunch_end,omitempty"`
	ExitTime   *string `json:"exit_time,omitempty"`
}

// DayRecord is the set of punches actually registered by one employee
// on one date, plus the persisted deviation caches.
type DayRecord struct {
	Date           string  `json:"date"`
	EntryTime      *string `json:"entry_time,omitempty"`
	LunchStart     *string `json:"lunch_start,omitempty"`
	LunchEnd       *string `json:"lunch_end,omitempty"`
	ExitTime       *string `json:"exit_time,omitempty"`
	ExtraMinutes   int     `json:"extra_minutes"`
	MissingMinutes int     `json:"missing_minutes"`
}

// Punch returns the schedule time for the given punch kind.
func (s DaySchedule) Punch(kind PunchKind) *string {
	switch kind {
	case PunchEntry:
		return s.EntryTime
	case PunchLunchStart:
		return s.LunchStart
	case PunchLunchEnd:
		return s.LunchEnd
	case PunchExit:
		return s.ExitTime
	}
	panic("timecalc: invalid punch kind " + string(kind))
}

// Punch returns the recorded time for the given punch kind.
func (r DayRecord) Punch(kind PunchKind) *string {
	switch kind {
	case PunchEntry:
		return r.EntryTime
	case PunchLunchStart:
		return r.LunchStart
	case PunchLunchEnd:
		return r.LunchEnd
	case PunchExit:
		return r.ExitTime
	}
	panic("timecalc: invalid punch kind " + string(kind))
}

// IsWorkingDay reports whether the schedule expects any work. Days
// without a configured entry or exit contribute zero expected minutes.
func (s DaySchedule) IsWorkingDay() bool {
	return s.EntryTime != nil || s.ExitTime != nil
}

// HasEntryAndExit reports whether both boundary punches are present.
func (r DayRecord) HasEntryAndExit() bool {
	return r.EntryTime != nil && r.ExitTime != nil
}

// Empty reports whether the record has no punches at all.
func (r DayRecord) Empty() bool {
	return r.EntryTime == nil && r.LunchStart == nil && r.LunchEnd == nil && r.ExitTime == nil
}
