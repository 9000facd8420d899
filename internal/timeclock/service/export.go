package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/pontoflow/pontoflow-backend/internal/timeclock/timecalc"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
)

// ExportService renders period reports as PDF documents
type ExportService struct {
	reports   *ReportService
	companies CompanyStore
	logger    *logger.Logger
}

// NewExportService creates a new export service
func NewExportService(reports *ReportService, companies CompanyStore, log *logger.Logger) *ExportService {
	return &ExportService{
		reports:   reports,
		companies: companies,
		logger:    log,
	}
}

// MonthlyPDF renders the monthly report for one employee as a PDF
func (s *ExportService) MonthlyPDF(ctx context.Context, companyID, employeeID, date string) ([]byte, string, error) {
	report, err := s.reports.Monthly(ctx, employeeID, date)
	if err != nil {
		return nil, "", err
	}

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", err
	}

	pdf, err := BuildReportPDF(company.Name, report)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("timesheet-%s-%s.pdf", report.Employee.ID, report.Report.StartDate)
	return pdf, filename, nil
}

// BuildReportPDF renders a report into a one-page-per-period PDF
// timesheet
func BuildReportPDF(companyName string, report *EmployeeReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Timesheet", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, companyName, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Employee: %s", report.Employee.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Period: %s to %s", report.Report.StartDate, report.Report.EndDate), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// table header
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	headers := []struct {
		label string
		width float64
	}{
		{"Date", 24},
		{"Entry", 18},
		{"Lunch out", 20},
		{"Lunch in", 20},
		{"Exit", 18},
		{"Worked", 22},
		{"Extra", 22},
		{"Missing", 22},
		{"Status", 24},
	}
	for _, h := range headers {
		pdf.CellFormat(h.width, 7, h.label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, day := range report.Report.Days {
		var entry, lunchStart, lunchEnd, exit *string
		if day.Record != nil {
			entry = day.Record.EntryTime
			lunchStart = day.Record.LunchStart
			lunchEnd = day.Record.LunchEnd
			exit = day.Record.ExitTime
		}
		pdf.CellFormat(24, 6, day.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(18, 6, punchCell(entry), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, punchCell(lunchStart), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, punchCell(lunchEnd), "1", 0, "C", false, 0, "")
		pdf.CellFormat(18, 6, punchCell(exit), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, timecalc.MinutesToClock(day.WorkedMinutes), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, timecalc.MinutesToHuman(day.ExtraMinutes), "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, timecalc.MinutesToHuman(day.MissingMinutes), "1", 0, "C", false, 0, "")
		pdf.CellFormat(24, 6, string(day.Status), "1", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	totals := report.Report.Totals
	pdf.CellFormat(0, 6, fmt.Sprintf("Total worked: %s", timecalc.MinutesToClock(totals.WorkedMinutes)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total extra: %s", timecalc.MinutesToHuman(totals.ExtraMinutes)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total missing: %s", timecalc.MinutesToHuman(totals.MissingMinutes)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Internal("failed to render PDF")
	}

	return buf.Bytes(), nil
}

func punchCell(t *string) string {
	if t == nil {
		return "-"
	}
	if len(*t) >= 5 {
		return (*t)[:5]
	}
	return *t
}
