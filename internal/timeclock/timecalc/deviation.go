package timecalc

// unregisteredFallbackMinutes is the penalty applied when the schedule
// expects an entry or exit punch and none was registered: one full
// 8-hour day, regardless of the configured shift length. Lunch punches
// carry no such penalty.
const unregisteredFallbackMinutes = 480

// Classification labels how a single punch compares to its schedule.
type Classification string

const (
	// ClassOnTime means the punch matched the schedule exactly.
	ClassOnTime Classification = "ontime"
	// ClassExtra means the punch added worked time beyond the schedule.
	ClassExtra Classification = "extra"
	// ClassMissing means the punch fell short of the schedule.
	ClassMissing Classification = "missing"
	// ClassUnregistered means the schedule expects the punch but none
	// was recorded and no penalty applies (lunch punches only).
	ClassUnregistered Classification = "unregistered"
	// ClassNone means the schedule has no configured time for the
	// punch, so it contributes nothing.
	ClassNone Classification = "none"
)

// PunchDeviation is the per-punch outcome of the deviation calculation.
type PunchDeviation struct {
	Kind           PunchKind      `json:"kind"`
	Classification Classification `json:"classification"`
	Minutes        int            `json:"minutes"`
}

// Deviation is the result of comparing one day's record against the
// schedule for its weekday.
type Deviation struct {
	ExtraMinutes   int              `json:"extra_minutes"`
	MissingMinutes int              `json:"missing_minutes"`
	PerPunch       []PunchDeviation `json:"per_punch"`
}

// ComputeDeviation classifies each punch of the record against the
// schedule and totals the extra and missing minutes. Inputs are not
// mutated; both totals are always non-negative.
//
// The rules are asymmetric per punch kind. For entry and the lunch
// punches an earlier time than scheduled counts as extra work; for
// exit a later time does. A scheduled entry or exit with no recorded
// punch costs the fixed 480-minute fallback, while a scheduled lunch
// punch with no recorded time contributes nothing.
func ComputeDeviation(record DayRecord, schedule DaySchedule) Deviation {
	var dev Deviation
	dev.PerPunch = make([]PunchDeviation, 0, len(AllPunchKinds))

	for _, kind := range AllPunchKinds {
		pd := classifyPunch(kind, record.Punch(kind), schedule.Punch(kind))
		dev.PerPunch = append(dev.PerPunch, pd)

		switch pd.Classification {
		case ClassExtra:
			dev.ExtraMinutes += pd.Minutes
		case ClassMissing:
			dev.MissingMinutes += pd.Minutes
		}
	}

	return dev
}

func classifyPunch(kind PunchKind, recorded, scheduled *string) PunchDeviation {
	pd := PunchDeviation{Kind: kind, Classification: ClassNone}

	if scheduled == nil {
		return pd
	}

	if recorded == nil {
		if kind == PunchEntry || kind == PunchExit {
			pd.Classification = ClassMissing
			pd.Minutes = unregisteredFallbackMinutes
		} else {
			pd.Classification = ClassUnregistered
		}
		return pd
	}

	diff := ClockToMinutes(recorded) - ClockToMinutes(scheduled)
	if diff == 0 {
		pd.Classification = ClassOnTime
		return pd
	}

	// For exit a positive diff (left late) is extra work; for every
	// other punch a negative diff (arrived early) is.
	extra := diff > 0
	if kind != PunchExit {
		extra = diff < 0
	}

	if extra {
		pd.Classification = ClassExtra
	} else {
		pd.Classification = ClassMissing
	}
	if diff < 0 {
		diff = -diff
	}
	pd.Minutes = diff

	return pd
}

// ExpectedMinutes derives the gross scheduled duration for a day: exit
// minus entry, less the lunch window when both lunch times are set.
// Days without both entry and exit expect zero minutes.
func ExpectedMinutes(schedule DaySchedule) int {
	if schedule.EntryTime == nil || schedule.ExitTime == nil {
		return 0
	}

	minutes := ClockToMinutes(schedule.ExitTime) - ClockToMinutes(schedule.EntryTime)
	if schedule.LunchStart != nil && schedule.LunchEnd != nil {
		minutes -= ClockToMinutes(schedule.LunchEnd) - ClockToMinutes(schedule.LunchStart)
	}

	return minutes
}

// WorkedMinutes derives the gross recorded duration for a day using
// the same shape as ExpectedMinutes, floored at zero.
func WorkedMinutes(record DayRecord) int {
	if record.EntryTime == nil || record.ExitTime == nil {
		return 0
	}

	minutes := ClockToMinutes(record.ExitTime) - ClockToMinutes(record.EntryTime)
	if record.LunchStart != nil && record.LunchEnd != nil {
		minutes -= ClockToMinutes(record.LunchEnd) - ClockToMinutes(record.LunchStart)
	}

	if minutes < 0 {
		return 0
	}
	return minutes
}
