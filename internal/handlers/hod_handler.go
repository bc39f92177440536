package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-tools/feedback_backend/internal/middleware"
	"github.com/campus-tools/feedback_backend/internal/services"
)

// HodHandler handles department head endpoints
type HodHandler struct {
	assignmentService services.AssignmentService
	reportService     services.ReportService
	feedbackService   services.FeedbackService
	suggestionService services.HodSuggestionService
	departmentService services.DepartmentService
	exportService     services.ExportService
}

// NewHodHandler creates a new HOD handler
func NewHodHandler(
	assignmentService services.AssignmentService,
	reportService services.ReportService,
	feedbackService services.FeedbackService,
	suggestionService services.HodSuggestionService,
	departmentService services.DepartmentService,
	exportService services.ExportService,
) *HodHandler {
	return &HodHandler{
		assignmentService: assignmentService,
		reportService:     reportService,
		feedbackService:   feedbackService,
		suggestionService: suggestionService,
		departmentService: departmentService,
		exportService:     exportService,
	}
}

// AssignmentPairRequest is one desired staff-subject pairing
type AssignmentPairRequest struct {
	StaffID   string `json:"staff_id" binding:"required"`
	SubjectID string `json:"subject_id" binding:"required"`
}

// SaveAssignmentsRequest represents the full desired assignment set.
// AcademicYear ("2025-26") anchors bare-integer semester labels so the
// result does not depend on when the request runs.
type SaveAssignmentsRequest struct {
	Semester     string                  `json:"semester" binding:"required"`
	AcademicYear string                  `json:"academic_year"`
	Assignments  []AssignmentPairRequest `json:"assignments"`
}

// SaveAssignmentsResponse reports the outcome of an assignment save
type SaveAssignmentsResponse struct {
	Success      bool  `json:"success"`
	Created      int   `json:"created"`
	Updated      int   `json:"updated"`
	Deleted      int64 `json:"deleted"`
	Total        int   `json:"total"`
	CurrentCount int   `json:"currentCount"`
}

// SaveAssignments handles POST /api/v1/hod/faculty-assignments
// @Summary Replace the department's faculty assignments for a semester
// @Description Stores the submitted set as the complete truth, deleting pairings that were omitted
// @Tags HOD
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SaveAssignmentsRequest true "Desired assignment set"
// @Success 200 {object} SaveAssignmentsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /hod/faculty-assignments [post]
func (h *HodHandler) SaveAssignments(c *gin.Context) {
	departmentID, ok := middleware.GetDepartmentID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req SaveAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "semester is required and assignments must be a list of staff_id/subject_id pairs",
		})
		return
	}

	pairs := make([]services.AssignmentPair, 0, len(req.Assignments))
	for _, p := range req.Assignments {
		staffID, ok := parseID(p.StaffID)
		if !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: fmt.Sprintf("invalid staff_id %q", p.StaffID),
			})
			return
		}
		subjectID, ok := parseID(p.SubjectID)
		if !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: fmt.Sprintf("invalid subject_id %q", p.SubjectID),
			})
			return
		}
		pairs = append(pairs, services.AssignmentPair{StaffID: staffID, SubjectID: subjectID})
	}

	result, err := h.assignmentService.Reconcile(c.Request.Context(), departmentID, req.Semester, req.AcademicYear, pairs)
	if err != nil {
		respondError(c, err)
		return
	}

	// Updated is always zero under full replacement. The field stays in the
	// response so existing clients keep parsing it.
	c.JSON(http.StatusOK, SaveAssignmentsResponse{
		Success:      true,
		Created:      result.Created,
		Updated:      0,
		Deleted:      result.Deleted,
		Total:        result.FinalCount,
		CurrentCount: result.FinalCount,
	})
}

// ListAssignments handles GET /api/v1/hod/faculty-assignments
// @Summary List the department's faculty assignments for a semester
// @Tags HOD
// @Produce json
// @Security BearerAuth
// @Param semester query string true "Semester label"
// @Success 200 {array} services.AssignmentDetail
// @Failure 400 {object} ErrorResponse
// @Router /hod/faculty-assignments [get]
func (h *HodHandler) ListAssignments(c *gin.Context) {
	departmentID, ok := middleware.GetDepartmentID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	semester := c.Query("semester")
	details, err := h.assignmentService.ListForDepartment(c.Request.Context(), departmentID, semester)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// DepartmentReports handles GET /api/v1/hod/reports
// @Summary Department feedback reports grouped by staff member
// @Description Includes unreleased feedback, HODs always see the full picture
// @Tags HOD
// @Produce json
// @Security BearerAuth
// @Param semester query string true "Semester label"
// @Success 200 {array} services.StaffReportGroup
// @Failure 400 {object} ErrorResponse
// @Router /hod/reports [get]
func (h *HodHandler) DepartmentReports(c *gin.Context) {
	departmentID, ok := middleware.GetDepartmentID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	groups, err := h.reportService.DepartmentReports(c.Request.Context(), departmentID, c.Query("semester"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// ReleaseReportsRequest represents the release request body
type ReleaseReportsRequest struct {
	Semester string `json:"semester" binding:"required"`
}

// ReleaseReports handles POST /api/v1/hod/reports/release
// @Summary Release the semester's feedback to faculty
// @Description Marks all department feedback for the semester visible to the rated staff
// @Tags HOD
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReleaseReportsRequest true "Release request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /hod/reports/release [post]
func (h *HodHandler) ReleaseReports(c *gin.Context) {
	departmentID, ok := middleware.GetDepartmentID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req ReleaseReportsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "semester is required",
		})
		return
	}

	released, err := h.feedbackService.Release(c.Request.Context(), departmentID, req.Semester)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "released": released})
}

// ComparativeReport handles GET /api/v1/hod/comparative-report
// @Summary Download the semester's comparative report as an Excel workbook
// @Tags HOD
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param semester query string true "Semester label"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Router /hod/comparative-report [get]
func (h *HodHandler) ComparativeReport(c *gin.Context) {
	departmentID, ok := middleware.GetDepartmentID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	data, err := h.exportService.ComparativeReportExcel(c.Request.Context(), departmentID, c.Query("semester"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="comparative-report.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// SaveSuggestionRequest represents the HOD suggestion body
type SaveSuggestionRequest struct {
	Semester string `json:"semester" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// SaveSuggestion handles PUT /api/v1/hod/suggestions/:staffId
// @Summary Save a private suggestion for a staff member
// @Description One suggestion per staff member per semester, saving again overwrites
// @Tags HOD
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param staffId path string true "Staff ID"
// @Param request body SaveSuggestionRequest true "Suggestion"
// @Success 200 {object} models.HodSuggestion
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /hod/suggestions/{staffId} [put]
func (h *HodHandler) SaveSuggestion(c *gin.Context) {
	departmentID, ok := middleware.GetDepartmentID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	staffID, ok := parseID(c.Param("staffId"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "staffId must be a valid object id",
		})
		return
	}

	var req SaveSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "semester and content are required",
		})
		return
	}

	suggestion, err := h.suggestionService.Save(c.Request.Context(), departmentID, staffID, req.Semester, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// GetSuggestion handles GET /api/v1/hod/suggestions/:staffId
// @Summary Fetch the saved suggestion for a staff member and semester
// @Tags HOD
// @Produce json
// @Security BearerAuth
// @Param staffId path string true "Staff ID"
// @Param semester query string true "Semester label"
// @Success 200 {object} models.HodSuggestion
// @Failure 404 {object} ErrorResponse
// @Router /hod/suggestions/{staffId} [get]
func (h *HodHandler) GetSuggestion(c *gin.Context) {
	staffID, ok := parseID(c.Param("staffId"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "staffId must be a valid object id",
		})
		return
	}

	suggestion, err := h.suggestionService.Get(c.Request.Context(), staffID, c.Query("semester"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// ListStaff handles GET /api/v1/hod/staff
// @Summary List staff members in the HOD's department
// @Tags HOD
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.StaffMember
// @Failure 401 {object} ErrorResponse
// @Router /hod/staff [get]
func (h *HodHandler) ListStaff(c *gin.Context) {
	departmentID, ok := middleware.GetDepartmentID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	members, err := h.departmentService.ListStaff(c.Request.Context(), departmentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// RegisterRoutes registers HOD handler routes
func (h *HodHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	hod := rg.Group("/hod")
	hod.Use(authMiddleware, middleware.RequireHOD())
	{
		hod.POST("/faculty-assignments", h.SaveAssignments)
		hod.GET("/faculty-assignments", h.ListAssignments)
		hod.GET("/reports", h.DepartmentReports)
		hod.POST("/reports/release", h.ReleaseReports)
		hod.GET("/comparative-report", h.ComparativeReport)
		hod.PUT("/suggestions/:staffId", h.SaveSuggestion)
		hod.GET("/suggestions/:staffId", h.GetSuggestion)
		hod.GET("/staff", h.ListStaff)
	}
}
