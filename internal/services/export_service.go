package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/repository"
)

// ExportService renders aggregated reports as downloadable documents
// #INTEGRATION_POINT: Consumes ReportService output; layout only, no math
type ExportService interface {
	// FacultyReportPDF renders one staff member's aggregated report as PDF,
	// optionally narrowed to a single semester
	FacultyReportPDF(ctx context.Context, staffID primitive.ObjectID, viewerRole models.UserRole, semester string) ([]byte, error)

	// ComparativeReportExcel renders the department's per-staff aggregates
	// for a semester as an Excel workbook, one row per assignment
	ComparativeReportExcel(ctx context.Context, departmentID primitive.ObjectID, semester string) ([]byte, error)
}

// exportService implements ExportService
type exportService struct {
	reportService ReportService
	staffRepo     repository.StaffRepository
	userRepo      repository.UserRepository
}

// NewExportService creates a new export service instance
func NewExportService(
	reportService ReportService,
	staffRepo repository.StaffRepository,
	userRepo repository.UserRepository,
) ExportService {
	return &exportService{
		reportService: reportService,
		staffRepo:     staffRepo,
		userRepo:      userRepo,
	}
}

// parameterLabel turns a snake_case rating key into a display label
func parameterLabel(param string) string {
	words := strings.Split(param, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FacultyReportPDF renders the faculty performance report
func (s *exportService) FacultyReportPDF(ctx context.Context, staffID primitive.ObjectID, viewerRole models.UserRole, semester string) ([]byte, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	staffName := ""
	if user, err := s.userRepo.GetByID(ctx, staff.UserID); err == nil {
		staffName = user.Name
	} else if !models.IsNotFoundError(err) {
		return nil, err
	}

	groups, err := s.reportService.FacultyReport(ctx, staffID, viewerRole)
	if err != nil {
		return nil, err
	}
	groups = FilterReportGroups(groups, semester)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Faculty Feedback Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Faculty Feedback Report", "", 1, "C", false, 0, "")
	if staffName != "" {
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, staffName, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	if len(groups) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 8, "No released feedback is available yet.", "", 1, "L", false, 0, "")
	}

	for _, group := range groups {
		pdf.SetFont("Helvetica", "B", 13)
		title := group.DepartmentName
		if title == "" {
			title = "Department"
		}
		pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")

		for _, entry := range group.Entries {
			pdf.SetFont("Helvetica", "B", 11)
			heading := entry.SubjectName
			if entry.SubjectCode != "" {
				heading = fmt.Sprintf("%s (%s)", entry.SubjectName, entry.SubjectCode)
			}
			pdf.CellFormat(0, 8, heading, "", 1, "L", false, 0, "")

			pdf.SetFont("Helvetica", "", 10)
			pdf.CellFormat(0, 6, fmt.Sprintf("Semester: %s    Responses: %d    Overall: %.2f%%",
				entry.Semester, entry.TotalResponses, entry.OverallPercentage), "", 1, "L", false, 0, "")
			pdf.Ln(1)

			for _, param := range models.RatingParameters {
				pdf.CellFormat(110, 6, parameterLabel(param), "1", 0, "L", false, 0, "")
				pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", entry.Averages[param]), "1", 1, "R", false, 0, "")
			}
			pdf.Ln(4)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ComparativeReportExcel renders the department comparison workbook
func (s *exportService) ComparativeReportExcel(ctx context.Context, departmentID primitive.ObjectID, semester string) ([]byte, error) {
	staffGroups, err := s.reportService.DepartmentReports(ctx, departmentID, semester)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Comparative Report"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Faculty", "Subject", "Subject Code", "Semester", "Responses"}
	for _, param := range models.RatingParameters {
		headers = append(headers, parameterLabel(param))
	}
	headers = append(headers, "Overall %")
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, staffGroup := range staffGroups {
		for _, deptGroup := range staffGroup.Groups {
			if deptGroup.DepartmentID != departmentID {
				continue
			}
			for _, entry := range deptGroup.Entries {
				values := []interface{}{
					staffGroup.StaffName,
					entry.SubjectName,
					entry.SubjectCode,
					entry.Semester,
					entry.TotalResponses,
				}
				for _, param := range models.RatingParameters {
					values = append(values, entry.Averages[param])
				}
				values = append(values, entry.OverallPercentage)

				for col, value := range values {
					cell, err := excelize.CoordinatesToCellName(col+1, row)
					if err != nil {
						return nil, err
					}
					if err := f.SetCellValue(sheet, cell, value); err != nil {
						return nil, err
					}
				}
				row++
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
