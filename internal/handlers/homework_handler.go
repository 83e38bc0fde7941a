package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulalink/lms-service/internal/services"
	"github.com/aulalink/lms-service/internal/utils"
)

type HomeworkHandler struct {
	BaseHandler
	service services.HomeworkService
}

func NewHomeworkHandler(service services.HomeworkService, logger utils.Logger) *HomeworkHandler {
	return &HomeworkHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== HOMEWORK ENDPOINTS =====

// CreateHomework creates a homework with optional attachment.
// @Summary Create a homework
// @Tags homeworks
// @Accept multipart/form-data
// @Produce json
// @Param course_id path string true "Course ID"
// @Param title formData string true "Homework title"
// @Param start_date formData string true "Window start (YYYY-MM-DD)"
// @Param end_date formData string true "Window end (YYYY-MM-DD)"
// @Param delivery_type formData string true "Delivery type (file, text, online)"
// @Param attachment formData file false "Attachment file"
// @Success 201 {object} models.Homework
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /teacher/courses/{course_id}/homeworks [post]
func (h *HomeworkHandler) CreateHomework(c *gin.Context) {
	h.LogRequest(c, "Creating homework")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req services.CreateHomeworkRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	attachment, err := readUpload(c, "attachment")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid attachment",
			Details: err.Error(),
		})
		return
	}

	homework, err := h.service.Create(c.Request.Context(), c.Param("course_id"), &req, attachment, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, homework)
}

// DeleteHomework removes a homework.
// @Summary Delete a homework
// @Tags homeworks
// @Produce json
// @Param id path string true "Homework ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /teacher/homeworks/{id} [delete]
func (h *HomeworkHandler) DeleteHomework(c *gin.Context) {
	h.LogRequest(c, "Deleting homework")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("homework_id"), actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Homework deleted"})
}

// ListHomeworks lists the course's homeworks. For students each entry
// carries whether they already submitted.
// @Summary List course homeworks
// @Tags homeworks
// @Produce json
// @Param course_id path string true "Course ID"
// @Param upcoming query bool false "Only homeworks whose window has not closed"
// @Success 200 {array} services.HomeworkResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /courses/{course_id}/homeworks [get]
func (h *HomeworkHandler) ListHomeworks(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	courseID := c.Param("course_id")

	var (
		homeworks []*services.HomeworkResponse
		err       error
	)
	if c.Query("upcoming") == "true" {
		homeworks, err = h.service.ListUpcoming(c.Request.Context(), courseID, actor)
	} else {
		homeworks, err = h.service.ListByCourse(c.Request.Context(), courseID, actor)
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, homeworks)
}
