package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulalink/lms-service/internal/services"
	"github.com/aulalink/lms-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== DASHBOARD ENDPOINTS =====

// AdminOverview returns platform-wide counts.
// @Summary Get admin dashboard overview
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.AdminOverview
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/dashboard [get]
func (h *DashboardHandler) AdminOverview(c *gin.Context) {
	h.LogRequest(c, "Getting admin overview")

	overview, err := h.service.AdminOverview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// TeacherOverview summarizes the calling teacher's courses.
// @Summary Get teacher dashboard overview
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.TeacherOverview
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /teacher/dashboard [get]
func (h *DashboardHandler) TeacherOverview(c *gin.Context) {
	h.LogRequest(c, "Getting teacher overview")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	overview, err := h.service.TeacherOverview(c.Request.Context(), actor.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// StudentOverview summarizes the calling student's courses and grades.
// @Summary Get student dashboard overview
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.StudentOverview
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /student/dashboard [get]
func (h *DashboardHandler) StudentOverview(c *gin.Context) {
	h.LogRequest(c, "Getting student overview")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	overview, err := h.service.StudentOverview(c.Request.Context(), actor.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
