package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-tools/feedback_backend/internal/middleware"
	"github.com/campus-tools/feedback_backend/internal/models"
	"github.com/campus-tools/feedback_backend/internal/services"
)

// DepartmentHandler handles department and academic year endpoints
type DepartmentHandler struct {
	departmentService services.DepartmentService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(departmentService services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{
		departmentService: departmentService,
	}
}

// ListDepartments handles GET /api/v1/departments
// @Summary List departments
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Department
// @Failure 401 {object} ErrorResponse
// @Router /departments [get]
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	departments, err := h.departmentService.ListDepartments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}

// CreateDepartmentRequest represents the department creation request body
type CreateDepartmentRequest struct {
	Name         string `json:"name" binding:"required"`
	Abbreviation string `json:"abbreviation"`
}

// CreateDepartment handles POST /api/v1/departments
// @Summary Create a department
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateDepartmentRequest true "Department"
// @Success 201 {object} models.Department
// @Failure 400 {object} ErrorResponse
// @Router /departments [post]
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "name is required",
		})
		return
	}

	dept, err := h.departmentService.CreateDepartment(c.Request.Context(), req.Name, req.Abbreviation)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dept)
}

// GetDepartment handles GET /api/v1/departments/:id
// @Summary Get a department by id
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} models.Department
// @Failure 404 {object} ErrorResponse
// @Router /departments/{id} [get]
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "id must be a valid object id",
		})
		return
	}

	dept, err := h.departmentService.GetDepartment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dept)
}

// UpdateDepartmentRequest represents the department update body
type UpdateDepartmentRequest struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// UpdateDepartment handles PATCH /api/v1/departments/:id
// @Summary Update a department's name or abbreviation
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Param request body UpdateDepartmentRequest true "Fields to update"
// @Success 200 {object} models.Department
// @Failure 404 {object} ErrorResponse
// @Router /departments/{id} [patch]
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "id must be a valid object id",
		})
		return
	}

	var req UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "body must be valid JSON",
		})
		return
	}

	dept, err := h.departmentService.UpdateDepartment(c.Request.Context(), id, req.Name, req.Abbreviation)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dept)
}

// DeleteDepartment handles DELETE /api/v1/departments/:id
// @Summary Soft delete a department
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /departments/{id} [delete]
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "id must be a valid object id",
		})
		return
	}

	if err := h.departmentService.DeleteDepartment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// FeedbackWindowRequest represents the feedback window toggle body
type FeedbackWindowRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetFeedbackWindow handles PUT /api/v1/departments/feedback-window
// @Summary Open or close the feedback window for the HOD's department
// @Description While the window is closed students cannot submit feedback
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FeedbackWindowRequest true "Window state"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /departments/feedback-window [put]
func (h *DepartmentHandler) SetFeedbackWindow(c *gin.Context) {
	departmentID, ok := middleware.GetDepartmentID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var req FeedbackWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "active is required",
		})
		return
	}

	if err := h.departmentService.SetFeedbackWindow(c.Request.Context(), departmentID, *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "active": *req.Active})
}

// ListAcademicYears handles GET /api/v1/academic-years
// @Summary List academic years
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AcademicYear
// @Failure 401 {object} ErrorResponse
// @Router /academic-years [get]
func (h *DepartmentHandler) ListAcademicYears(c *gin.Context) {
	years, err := h.departmentService.ListAcademicYears(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, years)
}

// CreateAcademicYearRequest represents the academic year creation body
type CreateAcademicYearRequest struct {
	Name         string `json:"name" binding:"required"`
	Abbreviation string `json:"abbreviation"`
}

// CreateAcademicYear handles POST /api/v1/academic-years
// @Summary Create an academic year
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAcademicYearRequest true "Academic year"
// @Success 201 {object} models.AcademicYear
// @Failure 409 {object} ErrorResponse
// @Router /academic-years [post]
func (h *DepartmentHandler) CreateAcademicYear(c *gin.Context) {
	var req CreateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "name is required",
		})
		return
	}

	year, err := h.departmentService.CreateAcademicYear(c.Request.Context(), req.Name, req.Abbreviation)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, year)
}

// RegisterRoutes registers department handler routes
func (h *DepartmentHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	departments := rg.Group("/departments")
	departments.Use(authMiddleware)
	{
		departments.GET("", h.ListDepartments)
		departments.POST("", middleware.RequireRole(models.UserRoleAdmin), h.CreateDepartment)
		departments.PUT("/feedback-window", middleware.RequireHOD(), h.SetFeedbackWindow)
		departments.GET("/:id", h.GetDepartment)
		departments.PATCH("/:id", middleware.RequireRole(models.UserRoleAdmin), h.UpdateDepartment)
		departments.DELETE("/:id", middleware.RequireRole(models.UserRoleAdmin), h.DeleteDepartment)
	}

	years := rg.Group("/academic-years")
	years.Use(authMiddleware)
	{
		years.GET("", h.ListAcademicYears)
		years.POST("", middleware.RequireHOD(), h.CreateAcademicYear)
	}
}
