package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/events"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/handler"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/repository"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/service"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/timecalc"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
	"github.com/pontoflow/pontoflow-backend/pkg/tenant"
	"github.com/pontoflow/pontoflow-backend/pkg/testutil"
)

const (
	testCompanyID = "7c1a3a8e-45cd-4a1a-8d7a-0f6f1a2b3c4d"
	testSessionID = "2f9b6d4c-1e8a-4c7b-9d3e-5a6b7c8d9e0f"
)

func testLogger() *logger.Logger {
	return logger.New("test", "test")
}

func testPublisher() *events.TimeclockEventPublisher {
	return events.NewTimeclockEventPublisherWithBus(testutil.NewMockPublisher(), testLogger())
}

// companyContext mimics the auth middleware, injecting the tenant into
// every request
func companyContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := tenant.WithCompanyContext(r.Context(), testCompanyID, "12345678000190", testSessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ============================================================
// In-memory stores
// ============================================================

type fakeEmployeeStore struct {
	employees map[string]*repository.Employee
	seq       int
}

func newFakeEmployeeStore() *fakeEmployeeStore {
	return &fakeEmployeeStore{employees: make(map[string]*repository.Employee)}
}

func (f *fakeEmployeeStore) add(name string) *repository.Employee {
	f.seq++
	emp := &repository.Employee{
		ID:        fmt.Sprintf("employee-%d", f.seq),
		CompanyID: testCompanyID,
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.employees[emp.ID] = emp
	return emp
}

func (f *fakeEmployeeStore) Create(_ context.Context, emp *repository.Employee) error {
	f.seq++
	emp.ID = fmt.Sprintf("employee-%d", f.seq)
	emp.CompanyID = testCompanyID
	emp.Active = true
	emp.CreatedAt = time.Now()
	emp.UpdatedAt = time.Now()
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
	if !ok || emp.DeletedAt != nil {
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
	emp.UpdatedAt = time.Now()
	return nil
}

func (f *fakeEmployeeStore) Delete(_ context.Context, id string) error {
	emp, ok := f.employees[id]
	if !ok || emp.DeletedAt != nil {
		return errors.NotFound("employee")
	}
	now := time.Now()
	emp.Active = false
	emp.DeletedAt = &now
	return nil
}

type fakeScheduleStore struct {
	byDay map[int]*repository.WorkSchedule
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{byDay: make(map[int]*repository.WorkSchedule)}
}

func (f *fakeScheduleStore) Upsert(_ context.Context, sched *repository.WorkSchedule) error {
	sched.ID = fmt.Sprintf("schedule-%d", sched.DayOfWeek)
	sched.CompanyID = testCompanyID
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
	return &fakeTimeRecordStore{byKey: make(map[string]*repository.TimeRecord)}
}

func recordKey(employeeID, recordDate string) string {
	return employeeID + "|" + recordDate
}

func (f *fakeTimeRecordStore) GetByEmployeeAndDate(_ context.Context, employeeID, recordDate string) (*repository.TimeRecord, error) {
	return f.byKey[recordKey(employeeID, recordDate)], nil
}

func (f *fakeTimeRecordStore) ListByEmployeeAndRange(_ context.Context, employeeID, startDate, endDate string) ([]*repository.TimeRecord, error) {
	var out []*repository.TimeRecord
	for _, record := range f.byKey {
		if record.EmployeeID != employeeID {
			continue
		}
		if record.RecordDate < startDate || record.RecordDate > endDate {
			continue
		}
		out = append(out, record)
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
			CompanyID:  testCompanyID,
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

type fakeCompanyStore struct {
	companies map[string]*repository.Company
}

func newFakeCompanyStore() *fakeCompanyStore {
	return &fakeCompanyStore{companies: make(map[string]*repository.Company)}
}

func (f *fakeCompanyStore) Create(_ context.Context, company *repository.Company) error {
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

// ============================================================
// Router wiring
// ============================================================

// testEnv holds the fakes behind a fully wired router
type testEnv struct {
	router    chi.Router
	employees *fakeEmployeeStore
	schedules *fakeScheduleStore
	records   *fakeTimeRecordStore
	companies *fakeCompanyStore
}

func newTestEnv() *testEnv {
	log := testLogger()
	pub := testPublisher()

	employees := newFakeEmployeeStore()
	schedules := newFakeScheduleStore()
	records := newFakeTimeRecordStore()
	companies := newFakeCompanyStore()
	companies.companies[testCompanyID] = &repository.Company{
		ID:     testCompanyID,
		Name:   "Test Company",
		CNPJ:   "12345678000190",
		Status: "active",
	}

	employeeSvc := service.NewEmployeeService(employees, pub, log)
	scheduleSvc := service.NewScheduleService(schedules, pub, log)
	punchSvc := service.NewPunchService(records, schedules, employees, pub, log)
	reportSvc := service.NewReportService(records, schedules, employees, log)
	exportSvc := service.NewExportService(reportSvc, companies, log)

	employeeHandler := handler.NewEmployeeHandler(employeeSvc, log)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, log)
	punchHandler := handler.NewPunchHandler(punchSvc, log)
	reportHandler := handler.NewReportHandler(reportSvc, exportSvc, log)

	r := chi.NewRouter()
	r.Use(companyContext)

	r.Route("/api/v1/timeclock", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", employeeHandler.List)
			r.Post("/", employeeHandler.Create)
			r.Get("/{id}", employeeHandler.Get)
			r.Patch("/{id}", employeeHandler.Update)
			r.Delete("/{id}", employeeHandler.Delete)
			r.Put("/{id}/punches", punchHandler.SetPunch)
			r.Get("/{id}/records", punchHandler.Day)
			r.Post("/{id}/recalculate", punchHandler.Recalculate)
			r.Get("/{id}/reports/daily", reportHandler.Daily)
			r.Get("/{id}/reports/weekly", reportHandler.Weekly)
			r.Get("/{id}/reports/monthly", reportHandler.Monthly)
			r.Get("/{id}/reports/monthly/pdf", reportHandler.MonthlyPDF)
			r.Get("/{id}/reports/range", reportHandler.Range)
		})
		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", scheduleHandler.Week)
			r.Put("/", scheduleHandler.Upsert)
		})
	})

	return &testEnv{
		router:    r,
		employees: employees,
		schedules: schedules,
		records:   records,
		companies: companies,
	}
}

// mondaySchedule configures a standard 8-17 day with an hour of lunch
func (e *testEnv) mondaySchedule() {
	entry, lunchStart := "08:00:00", "12:00:00"
	lunchEnd, exit := "13:00:00", "17:00:00"
	e.schedules.byDay[1] = &repository.WorkSchedule{
		ID:         "schedule-1",
		CompanyID:  testCompanyID,
		DayOfWeek:  1,
		EntryTime:  &entry,
		LunchStart: &lunchStart,
		LunchEnd:   &lunchEnd,
		ExitTime:   &exit,
	}
}
