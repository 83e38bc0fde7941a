package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aulalink/lms-service/internal/repositories"
	"github.com/aulalink/lms-service/internal/services"
	"github.com/aulalink/lms-service/internal/utils"
)

type SubmissionHandler struct {
	BaseHandler
	service services.SubmissionService
}

func NewSubmissionHandler(service services.SubmissionService, logger utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== STUDENT ENDPOINTS =====

// Submit records the student's answer, with optional file upload.
// @Summary Submit a homework answer
// @Tags submissions
// @Accept multipart/form-data
// @Produce json
// @Param homework_id path string true "Homework ID"
// @Param text_answer formData string false "Text answer"
// @Param file formData file false "Answer file"
// @Success 201 {object} models.Submission
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 409 {object} ErrorResponse "Already submitted"
// @Router /student/homeworks/{homework_id}/submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	h.LogRequest(c, "Creating submission")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req services.CreateSubmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	file, err := readUpload(c, "file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid file",
			Details: err.Error(),
		})
		return
	}

	submission, err := h.service.Submit(c.Request.Context(), c.Param("homework_id"), &req, file, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// ListMine returns the student's own submissions in a course.
// @Summary List own submissions for a course
// @Tags submissions
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {array} models.Submission
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /student/courses/{course_id}/submissions [get]
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	submissions, err := h.service.ListMine(c.Request.Context(), c.Param("course_id"), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// ===== TEACHER ENDPOINTS =====

// ListByHomework lists a homework's submissions with filters.
// @Summary List homework submissions
// @Tags submissions
// @Produce json
// @Param homework_id path string true "Homework ID"
// @Param graded query bool false "Filter by grading state"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 50, max: 200)"
// @Success 200 {array} services.SubmissionResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /teacher/homeworks/{homework_id}/submissions [get]
func (h *SubmissionHandler) ListByHomework(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	if size < 1 {
		size = 50
	}
	if size > 200 {
		size = 200
	}

	filters := repositories.SubmissionFilters{
		Limit:  size,
		Offset: (page - 1) * size,
	}
	if gradedParam := c.Query("graded"); gradedParam != "" {
		graded := gradedParam == "true"
		filters.IsGraded = &graded
	}

	submissions, err := h.service.ListByHomework(c.Request.Context(), c.Param("homework_id"), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// Grade records a score and feedback for a submission.
// @Summary Grade a submission
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param request body services.GradeRequest true "Score and feedback"
// @Success 200 {object} models.Submission
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /teacher/submissions/{id}/grade [put]
func (h *SubmissionHandler) Grade(c *gin.Context) {
	h.LogRequest(c, "Grading submission")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req services.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	submission, err := h.service.Grade(c.Request.Context(), c.Param("submission_id"), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// GradingStats summarizes grading progress for a homework.
// @Summary Get grading statistics
// @Tags submissions
// @Produce json
// @Param homework_id path string true "Homework ID"
// @Success 200 {object} services.GradingOverview
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /teacher/homeworks/{homework_id}/grading-stats [get]
func (h *SubmissionHandler) GradingStats(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	stats, err := h.service.GradingStats(c.Request.Context(), c.Param("homework_id"), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportGrades downloads the homework's grades as an xlsx workbook.
// @Summary Export grades as xlsx
// @Tags submissions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param homework_id path string true "Homework ID"
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /teacher/homeworks/{homework_id}/grades/export [get]
func (h *SubmissionHandler) ExportGrades(c *gin.Context) {
	h.LogRequest(c, "Exporting grades")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	data, err := h.service.ExportGrades(c.Request.Context(), c.Param("homework_id"), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("calificaciones-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
