package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-tools/feedback_backend/internal/middleware"
	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/services"
)

// SubjectHandler handles subject catalogue endpoints
type SubjectHandler struct {
	subjectService services.SubjectService
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(subjectService services.SubjectService) *SubjectHandler {
	return &SubjectHandler{
		subjectService: subjectService,
	}
}

// SubjectListResponse wraps the department subject list
type SubjectListResponse struct {
	Subjects []models.SubjectView `json:"subjects"`
	Total    int                  `json:"total"`
}

// ListSubjects handles GET /api/v1/subjects
// @Summary List subjects linked to the caller's department
// @Description Returns every subject joined to the department, one entry per link
// @Tags Subjects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SubjectListResponse
// @Failure 401 {object} ErrorResponse
// @Router /subjects [get]
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	departmentID, ok := middleware.GetDepartmentID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	views, err := h.subjectService.FindSubjectsForDepartment(c.Request.Context(), departmentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubjectListResponse{
		Subjects: views,
		Total:    len(views),
	})
}

// CreateSubjectRequest represents the subject creation request body
type CreateSubjectRequest struct {
	Name           string `json:"name" binding:"required"`
	SubjectCode    string `json:"subject_code" binding:"required"`
	Semester       string `json:"semester" binding:"required"`
	AcademicYearID string `json:"academic_year_id" binding:"required"`
}

// CreateSubject handles POST /api/v1/subjects
// @Summary Create a subject or link an existing one
// @Description Reuses a subject with the same code or name when one exists, otherwise creates it, then links it to the department
// @Tags Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateSubjectRequest true "Subject"
// @Success 201 {object} models.SubjectView
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /subjects [post]
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	departmentID, ok := middleware.GetDepartmentID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "name, subject_code, semester and academic_year_id are required",
		})
		return
	}

	yearID, ok := parseID(req.AcademicYearID)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "academic_year_id must be a valid object id",
		})
		return
	}

	view, err := h.subjectService.CreateOrLink(c.Request.Context(), departmentID, services.CreateSubjectInput{
		Name:           req.Name,
		SubjectCode:    req.SubjectCode,
		Semester:       req.Semester,
		AcademicYearID: yearID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// UnlinkSubject handles DELETE /api/v1/subjects/:id/link
// @Summary Unlink a subject from the caller's department
// @Description Removes the department link only, the shared subject survives for other departments
// @Tags Subjects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /subjects/{id}/link [delete]
func (h *SubjectHandler) UnlinkSubject(c *gin.Context) {
	departmentID, ok := middleware.GetDepartmentID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	subjectID, ok := parseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "id must be a valid object id",
		})
		return
	}

	if err := h.subjectService.Unlink(c.Request.Context(), departmentID, subjectID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RegisterRoutes registers subject handler routes
func (h *SubjectHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	subjects := rg.Group("/subjects")
	subjects.Use(authMiddleware)
	{
		subjects.GET("", h.ListSubjects)
		subjects.POST("", middleware.RequireHOD(), h.CreateSubject)
		subjects.DELETE("/:id/link", middleware.RequireHOD(), h.UnlinkSubject)
	}
}
