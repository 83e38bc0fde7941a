package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aulalink/lms-service/internal/models"
	"github.com/aulalink/lms-service/internal/repositories"
	"github.com/aulalink/lms-service/internal/services"
	"github.com/aulalink/lms-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	service services.RoleService
}

func NewUserHandler(service services.RoleService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== USER ADMINISTRATION ENDPOINTS =====

// ListUsers lists accounts with optional role and search filters.
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param q query string false "Search query (name or email)"
// @Param role query string false "Filter by role (admin, docente, estudiante)"
// @Success 200 {object} services.UserListResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if size < 1 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	filters := repositories.ProfileFilters{
		Query:  c.Query("q"),
		Limit:  size,
		Offset: (page - 1) * size,
	}
	if roleParam := c.Query("role"); roleParam != "" {
		role := models.ParseRole(roleParam)
		filters.Role = &role
	}

	result, err := h.service.ListUsers(c.Request.Context(), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateRole changes a user's role.
// @Summary Update a user's role
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body services.RoleUpdateRequest true "New role"
// @Success 200 {object} services.RoleUpdateResult
// @Success 202 {object} ErrorResponse "Role updated, identity sync pending"
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /admin/users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	h.LogRequest(c, "Updating user role")

	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req services.RoleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	result, err := h.service.UpdateRole(c.Request.Context(), c.Param("user_id"), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RetryRoleSync drains the pending identity metadata sync queue.
// @Summary Retry pending role metadata syncs
// @Tags users
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/users/role-sync/retry [post]
func (h *UserHandler) RetryRoleSync(c *gin.Context) {
	h.LogRequest(c, "Retrying role metadata sync")

	synced, err := h.service.RetryMetadataSync(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Sync queue drained",
		Data:    gin.H{"synced": synced},
	})
}
