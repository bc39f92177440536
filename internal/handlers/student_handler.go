package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campus-tools/feedback_backend/internal/middleware"
	"github.com/campus-tools/feedback_backend/internal/normalize"
	"github.com/campus-tools/feedback_backend/internal/services"
)

// StudentHandler handles student-facing endpoints
type StudentHandler struct {
	feedbackService services.FeedbackService
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(feedbackService services.FeedbackService) *StudentHandler {
	return &StudentHandler{
		feedbackService: feedbackService,
	}
}

// Tasks handles GET /api/v1/student/tasks
// @Summary List the caller's feedback tasks
// @Description Every active assignment in the student's department with a submitted flag
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Param semester query string false "Semester label"
// @Success 200 {array} services.StudentTask
// @Failure 401 {object} ErrorResponse
// @Router /student/tasks [get]
func (h *StudentHandler) Tasks(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	tasks, err := h.feedbackService.StudentTasks(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if canonical := normalize.Semester(c.Query("semester"), time.Now().UTC()); canonical != "" {
		filtered := make([]services.StudentTask, 0, len(tasks))
		for _, task := range tasks {
			if task.Semester == canonical {
				filtered = append(filtered, task)
			}
		}
		tasks = filtered
	}
	c.JSON(http.StatusOK, tasks)
}

// SubmitFeedback handles POST /api/v1/student/feedback
// @Summary Submit feedback for one assignment
// @Description All sixteen ratings are required, one submission per student per assignment
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.SubmitFeedbackInput true "Feedback"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /student/feedback [post]
func (h *StudentHandler) SubmitFeedback(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		respondUnauthorized(c)
		return
	}

	var input services.SubmitFeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "assignment_id and all sixteen ratings are required",
		})
		return
	}

	fb, err := h.feedbackService.Submit(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": fb.ID.Hex()})
}

// RegisterRoutes registers student handler routes
func (h *StudentHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	student := rg.Group("/student")
	student.Use(authMiddleware, middleware.RequireStudent())
	{
		student.GET("/tasks", h.Tasks)
		student.POST("/feedback", h.SubmitFeedback)
	}
}
