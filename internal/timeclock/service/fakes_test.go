package service_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pontoflow/pontoflow-backend/internal/timeclock/events"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/repository"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/timecalc"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
	"github.com/pontoflow/pontoflow-backend/pkg/testutil"
)

const fakeCompanyID = "11111111-1111-1111-1111-111111111111"

func testLogger() *logger.Logger {
	return logger.New("test", "test")
}

func testPublisher() (*events.TimeclockEventPublisher, *testutil.MockPublisher) {
	bus := testutil.NewMockPublisher()
	return events.NewTimeclockEventPublisherWithBus(bus, testLogger()), bus
}

// ----------------------------------------------------------------------------
// in-memory stores
// ----------------------------------------------------------------------------

type fakeCompanyStore struct {
	companies map[string]*repository.Company // by ID
}

func newFakeCompanyStore() *fakeCompanyStore {
	return &fakeCompanyStore{companies: map[string]*repository.Company{}}
}

func (f *fakeCompanyStore) Create(_ context.Context, company *repository.Company) error {
	if company.ID == "" {
		company.ID = fmt.Sprintf("company-%d", len(f.companies)+1)
	}
	if company.Status == "" {
		company.Status = repository.CompanyStatusActive
	}
	f.companies[company.ID] = company
	return nil
}

func (f *fakeCompanyStore) GetByID(_ context.Context, id string) (*repository.Company, error) {
	company, ok := f.companies[id]
	if !ok {
		return nil, errors.NotFound("company")
	}
	return company, nil
}

func (f *fakeCompanyStore) GetByCNPJ(_ context.Context, cnpj string) (*repository.Company, error) {
	for _, company := range f.companies {
		if company.CNPJ == cnpj {
			return company, nil
		}
	}
	return nil, nil
}

type fakeSessionStore struct {
	sessions map[string]*repository.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*repository.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, session *repository.Session) error {
	if session.ID == "" {
		session.ID = fmt.Sprintf("session-%d", len(f.sessions)+1)
	}
	session.Active = true
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id string) (*repository.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, errors.NotFound("session")
	}
	return session, nil
}

func (f *fakeSessionStore) CountActive(_ context.Context, companyID string) (int, error) {
	count := 0
	for _, session := range f.sessions {
		if session.CompanyID == companyID && session.Active {
			count++
		}
	}
	return count, nil
}

func (f *fakeSessionStore) Touch(_ context.Context, _ string) error { return nil }

func (f *fakeSessionStore) Deactivate(_ context.Context, id string) error {
	session, ok := f.sessions[id]
	if !ok {
		return errors.NotFound("session")
	}
	session.Active = false
	return nil
}

type fakeEmployeeStore struct {
	employees map[string]*repository.Employee
}

func newFakeEmployeeStore() *fakeEmployeeStore {
	return &fakeEmployeeStore{employees: map[string]*repository.Employee{}}
}

func (f *fakeEmployeeStore) addActive(n int) {
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("employee-%d", len(f.employees)+1)
		f.employees[id] = &repository.Employee{
			ID:        id,
			CompanyID: fakeCompanyID,
			Name:      fmt.Sprintf("Employee %d", i+1),
			Active:    true,
		}
	}
}

func (f *fakeEmployeeStore) Create(_ context.Context, emp *repository.Employee) error {
	if emp.ID == "" {
		emp.ID = fmt.Sprintf("employee-%d", len(f.employees)+1)
	}
	emp.CompanyID = fakeCompanyID
	emp.Active = true
	f.employees[emp.ID] = emp
	return nil
}

func (f *fakeEmployeeStore) GetByID(_ context.Context, id string) (*repository.Employee, error) {
	emp, ok := f.employees[id]
	if !ok || emp.DeletedAt != nil {
		return nil, errors.NotFound("employee")
	}
	return emp, nil
}

func (f *fakeEmployeeStore) List(_ context.Context, activeOnly bool) ([]*repository.Employee, error) {
	var out []*repository.Employee
	for _, emp := range f.employees {
		if emp.DeletedAt != nil {
			continue
		}
		if activeOnly && !emp.Active {
			continue
		}
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeEmployeeStore) CountActive(_ context.Context) (int, error) {
	count := 0
	for _, emp := range f.employees {
		if emp.Active && emp.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

func (f *fakeEmployeeStore) Update(_ context.Context, id string, upd *repository.EmployeeUpdate) error {
	emp, ok := f.employees[id]
	if !ok {
		return errors.NotFound("employee")
	}
	if upd.Name != nil {
		emp.Name = *upd.Name
	}
	if upd.CPF != nil {
		emp.CPF = upd.CPF
	}
	if upd.Position != nil {
		emp.Position = upd.Position
	}
	if upd.Active != nil {
		emp.Active = *upd.Active
	}
	return nil
}

func (f *fakeEmployeeStore) Delete(_ context.Context, id string) error {
	emp, ok := f.employees[id]
	if !ok || emp.DeletedAt != nil {
		return errors.NotFound("employee")
	}
	emp.Active = false
	now := time.Now()
	emp.DeletedAt = &now
	return nil
}

type fakeScheduleStore struct {
	byDay map[int]*repository.WorkSchedule
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{byDay: map[int]*repository.WorkSchedule{}}
}

func (f *fakeScheduleStore) Upsert(_ context.Context, sched *repository.WorkSchedule) error {
	sched.CompanyID = fakeCompanyID
	f.byDay[sched.DayOfWeek] = sched
	return nil
}

func (f *fakeScheduleStore) ListByCompany(_ context.Context) ([]*repository.WorkSchedule, error) {
	var out []*repository.WorkSchedule
	for day := 0; day < 7; day++ {
		if sched, ok := f.byDay[day]; ok {
			out = append(out, sched)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) GetByWeekday(_ context.Context, dayOfWeek int) (*repository.WorkSchedule, error) {
	return f.byDay[dayOfWeek], nil
}

type fakeTimeRecordStore struct {
	byKey map[string]*repository.TimeRecord
}

func newFakeTimeRecordStore() *fakeTimeRecordStore {
	return &fakeTimeRecordStore{byKey: map[string]*repository.TimeRecord{}}
}

func recordKey(employeeID, date string) string { return employeeID + "|" + date }

func (f *fakeTimeRecordStore) GetByEmployeeAndDate(_ context.Context, employeeID, recordDate string) (*repository.TimeRecord, error) {
	record, ok := f.byKey[recordKey(employeeID, recordDate)]
	if !ok {
		return nil, nil
	}
	return record, nil
}

func (f *fakeTimeRecordStore) ListByEmployeeAndRange(_ context.Context, employeeID, startDate, endDate string) ([]*repository.TimeRecord, error) {
	var out []*repository.TimeRecord
	for _, record := range f.byKey {
		if record.EmployeeID == employeeID && record.RecordDate >= startDate && record.RecordDate <= endDate {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordDate < out[j].RecordDate })
	return out, nil
}

func (f *fakeTimeRecordStore) SetPunch(_ context.Context, employeeID, recordDate string, kind timecalc.PunchKind, punchTime *string) (*repository.TimeRecord, error) {
	key := recordKey(employeeID, recordDate)
	record, ok := f.byKey[key]
	if !ok {
		record = &repository.TimeRecord{
			ID:         fmt.Sprintf("record-%d", len(f.byKey)+1),
			CompanyID:  fakeCompanyID,
			EmployeeID: employeeID,
			RecordDate: recordDate,
		}
		f.byKey[key] = record
	}

	switch kind {
	case timecalc.PunchEntry:
		record.EntryTime = punchTime
	case timecalc.PunchLunchStart:
		record.LunchStart = punchTime
	case timecalc.PunchLunchEnd:
		record.LunchEnd = punchTime
	case timecalc.PunchExit:
		record.ExitTime = punchTime
	}

	return record, nil
}

func (f *fakeTimeRecordStore) UpdateDeviation(_ context.Context, employeeID, recordDate string, extraMinutes, missingMinutes int) error {
	record, ok := f.byKey[recordKey(employeeID, recordDate)]
	if !ok {
		return errors.NotFound("time_record")
	}
	record.ExtraHours = fmt.Sprintf("%02d:%02d:00", extraMinutes/60, extraMinutes%60)
	record.MissingHours = fmt.Sprintf("%02d:%02d:00", missingMinutes/60, missingMinutes%60)
	return nil
}
