package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulalink/lms-service/internal/services"
	"github.com/aulalink/lms-service/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	service services.SessionService
}

func NewSessionHandler(service services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== SESSION ENDPOINTS =====

// CreateSession creates a class session with optional material file.
// @Summary Create a session
// @Tags sessions
// @Accept multipart/form-data
// @Produce json
// @Param course_id path string true "Course ID"
// @Param title formData string true "Session title"
// @Param description formData string false "Session description"
// @Param attachment formData file false "Material file"
// @Success 201 {object} models.Session
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /teacher/courses/{course_id}/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	h.LogRequest(c, "Creating session")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req services.CreateSessionRequest
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

	session, err := h.service.Create(c.Request.Context(), c.Param("course_id"), &req, attachment, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// DeleteSession removes a session.
// @Summary Delete a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /teacher/sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	h.LogRequest(c, "Deleting session")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("session_id"), actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Session deleted"})
}

// ListSessions lists the course's sessions.
// @Summary List course sessions
// @Tags sessions
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {array} models.Session
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /courses/{course_id}/sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	sessions, err := h.service.ListByCourse(c.Request.Context(), c.Param("course_id"), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}
