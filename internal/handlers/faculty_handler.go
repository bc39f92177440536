package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-tools/feedback_backend/internal/middleware"
	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/normalize"
	"github.com/campus-tools/feedback_backend/internal/services"
)

// FacultyHandler handles staff-facing endpoints
type FacultyHandler struct {
	assignmentService services.AssignmentService
	reportService     services.ReportService
	feedbackService   services.FeedbackService
	suggestionService services.HodSuggestionService
	exportService     services.ExportService
}

// NewFacultyHandler creates a new faculty handler
func NewFacultyHandler(
	assignmentService services.AssignmentService,
	reportService services.ReportService,
	feedbackService services.FeedbackService,
	suggestionService services.HodSuggestionService,
	exportService services.ExportService,
) *FacultyHandler {
	return &FacultyHandler{
		assignmentService: assignmentService,
		reportService:     reportService,
		feedbackService:   feedbackService,
		suggestionService: suggestionService,
		exportService:     exportService,
	}
}

// ListAssignments handles GET /api/v1/faculty/assignments
// @Summary List the caller's subject assignments across departments
// @Tags Faculty
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.AssignmentDetail
// @Failure 401 {object} ErrorResponse
// @Router /faculty/assignments [get]
func (h *FacultyHandler) ListAssignments(c *gin.Context) {
	staffID, ok := middleware.GetStaffID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	details, err := h.assignmentService.ListForStaff(c.Request.Context(), staffID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Report handles GET /api/v1/faculty/report
// @Summary The caller's feedback report grouped by department
// @Description Only released feedback is included
// @Tags Faculty
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.DepartmentReportGroup
// @Failure 401 {object} ErrorResponse
// @Router /faculty/report [get]
func (h *FacultyHandler) Report(c *gin.Context) {
	staffID, ok := middleware.GetStaffID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	role, ok := middleware.GetRole(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	groups, err := h.reportService.FacultyReport(c.Request.Context(), staffID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.FilterReportGroups(groups, c.Query("semester")))
}

// ReportPDF handles GET /api/v1/faculty/report.pdf
// @Summary Download the caller's feedback report as a PDF
// @Tags Faculty
// @Produce application/pdf
// @Security BearerAuth
// @Success 200 {file} binary
// @Failure 401 {object} ErrorResponse
// @Router /faculty/report.pdf [get]
func (h *FacultyHandler) ReportPDF(c *gin.Context) {
	staffID, ok := middleware.GetStaffID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	role, ok := middleware.GetRole(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	data, err := h.exportService.FacultyReportPDF(c.Request.Context(), staffID, role, c.Query("semester"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="feedback-report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// FacultySuggestionsResponse combines the HOD note with anonymous student
// suggestions
type FacultySuggestionsResponse struct {
	HodSuggestion      string                     `json:"hod_suggestion,omitempty"`
	StudentSuggestions []services.SuggestionEntry `json:"student_suggestions"`
}

// Suggestions handles GET /api/v1/faculty/suggestions
// @Summary The HOD's note and anonymous student suggestions for the caller
// @Description Student suggestions come from released feedback only
// @Tags Faculty
// @Produce json
// @Security BearerAuth
// @Param semester query string false "Semester label"
// @Success 200 {object} FacultySuggestionsResponse
// @Failure 401 {object} ErrorResponse
// @Router /faculty/suggestions [get]
func (h *FacultyHandler) Suggestions(c *gin.Context) {
	staffID, ok := middleware.GetStaffID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	role, ok := middleware.GetRole(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	semester := c.Query("semester")

	entries, err := h.feedbackService.StaffSuggestions(c.Request.Context(), staffID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	entries = filterSuggestions(entries, semester)

	resp := FacultySuggestionsResponse{StudentSuggestions: entries}
	if semester != "" {
		hodNote, err := h.suggestionService.Get(c.Request.Context(), staffID, semester)
		if err == nil {
			resp.HodSuggestion = hodNote.Content
		} else if !models.IsNotFoundError(err) {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

// filterSuggestions narrows suggestion entries to one canonical semester.
// An empty semester keeps everything.
func filterSuggestions(entries []services.SuggestionEntry, semester string) []services.SuggestionEntry {
	canonical := normalize.Semester(semester, time.Now().UTC())
	if canonical == "" {
		return entries
	}
	filtered := make([]services.SuggestionEntry, 0, len(entries))
	for _, e := range entries {
		if e.Semester == canonical {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// RegisterRoutes registers faculty handler routes
func (h *FacultyHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	faculty := rg.Group("/faculty")
	faculty.Use(authMiddleware, middleware.RequireStaff())
	{
		faculty.GET("/assignments", h.ListAssignments)
		faculty.GET("/report", h.Report)
		faculty.GET("/report.pdf", h.ReportPDF)
		faculty.GET("/suggestions", h.Suggestions)
	}
}
