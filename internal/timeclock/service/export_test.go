package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pontoflow/pontoflow-backend/internal/timeclock/repository"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/service"
)

func TestBuildReportPDF(t *testing.T) {
	records := newFakeTimeRecordStore()
	schedules := newFakeScheduleStore()
	employees := newFakeEmployeeStore()
	employees.addActive(1)
	mondaySchedule(t, schedules)

	reports := service.NewReportService(records, schedules, employees, testLogger())

	report, err := reports.Monthly(context.Background(), "employee-1", testDate)
	require.NoError(t, err)

	pdf, err := service.BuildReportPDF("Padaria Central", report)
	require.NoError(t, err)

	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestExport_MonthlyPDF(t *testing.T) {
	records := newFakeTimeRecordStore()
	schedules := newFakeScheduleStore()
	employees := newFakeEmployeeStore()
	companies := newFakeCompanyStore()
	employees.addActive(1)

	company := &repository.Company{Name: "Padaria Central", CNPJ: "12345678000190"}
	require.NoError(t, companies.Create(context.Background(), company))

	reports := service.NewReportService(records, schedules, employees, testLogger())
	exports := service.NewExportService(reports, companies, testLogger())

	pdf, filename, err := exports.MonthlyPDF(context.Background(), company.ID, "employee-1", testDate)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
	assert.Equal(t, "timesheet-employee-1-2026-03-01.pdf", filename)
}
