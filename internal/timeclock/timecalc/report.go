package timecalc

import "time"

// DateLayout is the canonical calendar-date format for records.
const DateLayout = "2006-01-02"

// DayStatus classifies a report day for display.
type DayStatus string

const (
	// StatusComplete means the record has both entry and exit.
	StatusComplete DayStatus = "complete"
	// StatusPartial means the record exists but lacks entry or exit.
	StatusPartial DayStatus = "partial"
	// StatusAbsent means no record exists on a day with expected work.
	StatusAbsent DayStatus = "absent"
	// StatusNoShift means no record exists and no work was expected.
	StatusNoShift DayStatus = "no_shift"
)

// DayCalculation is one report row: a calendar day joined to its
// weekday schedule and its time record, with derived totals. It is
// built fresh per report request and never persisted.
type DayCalculation struct {
	Date            string       `json:"date"`
	DayOfWeek       int          `json:"day_of_week"`
	Schedule        *DaySchedule `json:"schedule,omitempty"`
	Record          *DayRecord   `json:"record,omitempty"`
	ExpectedMinutes int          `json:"expected_minutes"`
	WorkedMinutes   int          `json:"worked_minutes"`
	ExtraMinutes    int          `json:"extra_minutes"`
	MissingMinutes  int          `json:"missing_minutes"`
	Status          DayStatus    `json:"status"`
}

// Totals sums the per-day columns across a report range.
type Totals struct {
	ExpectedMinutes int `json:"expected_minutes"`
	WorkedMinutes   int `json:"worked_minutes"`
	ExtraMinutes    int `json:"extra_minutes"`
	MissingMinutes  int `json:"missing_minutes"`
}

// Report is the aggregated result for a date range.
type Report struct {
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Days      []DayCalculation `json:"days"`
	Totals    Totals           `json:"totals"`
}

// BuildReport expands the inclusive date range into one DayCalculation
// per calendar day, joining each day to its schedule by weekday and to
// its record by exact date, and sums the range totals.
//
// The extra/missing columns come from the record's persisted deviation
// caches. A day with no record and expected work imputes the full
// expected duration as missing; this differs on purpose from
// ComputeDeviation's fixed 480-minute fallback, which only applies
// when a record exists with unregistered boundary punches.
func BuildReport(start, end time.Time, schedules []DaySchedule, records []DayRecord) Report {
	byWeekday := make(map[int]DaySchedule, len(schedules))
	for _, s := range schedules {
		byWeekday[s.DayOfWeek] = s
	}
	byDate := make(map[string]DayRecord, len(records))
	for _, r := range records {
		byDate[r.Date] = r
	}

	start = midnight(start)
	end = midnight(end)

	report := Report{
		StartDate: start.Format(DateLayout),
		EndDate:   end.Format(DateLayout),
		Days:      make([]DayCalculation, 0, int(end.Sub(start).Hours()/24)+1),
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		calc := buildDay(day, byWeekday, byDate)
		report.Totals.ExpectedMinutes += calc.ExpectedMinutes
		report.Totals.WorkedMinutes += calc.WorkedMinutes
		report.Totals.ExtraMinutes += calc.ExtraMinutes
		report.Totals.MissingMinutes += calc.MissingMinutes
		report.Days = append(report.Days, calc)
	}

	return report
}

func buildDay(day time.Time, byWeekday map[int]DaySchedule, byDate map[string]DayRecord) DayCalculation {
	calc := DayCalculation{
		Date:      day.Format(DateLayout),
		DayOfWeek: int(day.Weekday()),
	}

	if sched, ok := byWeekday[calc.DayOfWeek]; ok {
		calc.Schedule = &sched
		calc.ExpectedMinutes = ExpectedMinutes(sched)
	}

	rec, hasRecord := byDate[calc.Date]
	if hasRecord {
		calc.Record = &rec
		calc.WorkedMinutes = WorkedMinutes(rec)
		calc.ExtraMinutes = rec.ExtraMinutes
		calc.MissingMinutes = rec.MissingMinutes

		if rec.HasEntryAndExit() {
			calc.Status = StatusComplete
		} else {
			calc.Status = StatusPartial
		}
		return calc
	}

	if calc.ExpectedMinutes > 0 {
		// Full-day absence: impute the configured shift length.
		calc.MissingMinutes = calc.ExpectedMinutes
		calc.Status = StatusAbsent
	} else {
		calc.Status = StatusNoShift
	}

	return calc
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DailyRange returns a single-day range for the given date.
func DailyRange(date time.Time) (time.Time, time.Time) {
	return date, date
}

// WeeklyRange returns the Sunday-to-Saturday week containing the date.
func WeeklyRange(date time.Time) (time.Time, time.Time) {
	start := date.AddDate(0, 0, -int(date.Weekday()))
	return start, start.AddDate(0, 0, 6)
}

// MonthlyRange returns the first-to-last day of the date's month.
func MonthlyRange(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 1, -1)
}
