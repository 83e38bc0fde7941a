package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulalink/lms-service/internal/services"
	"github.com/aulalink/lms-service/internal/utils"
)

type AccountHandler struct {
	BaseHandler
	service services.AccountService
}

func NewAccountHandler(service services.AccountService, logger utils.Logger) *AccountHandler {
	return &AccountHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== PUBLIC ENDPOINTS =====

// Register creates a new student account.
// @Summary Register a new account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Registration data"
// @Success 201 {object} services.RegisterResult
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Registering account")

	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	result, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// RecoverPassword sends a password reset link to the given address.
// @Summary Request password recovery
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body services.RecoverRequest true "Account email"
// @Success 202 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /auth/recover [post]
func (h *AccountHandler) RecoverPassword(c *gin.Context) {
	h.LogRequest(c, "Requesting password recovery")

	var req services.RecoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.service.RequestPasswordRecovery(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	// Always 202: the response never reveals whether the address exists.
	c.JSON(http.StatusAccepted, SuccessResponse{
		Message: "If the address is registered, a recovery email was sent",
	})
}

// ResetPassword applies a new password for the account.
// @Summary Reset password
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body services.ResetPasswordRequest true "New password"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /auth/reset-password [post]
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	h.LogRequest(c, "Resetting password")

	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), &req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Password updated"})
}

// ===== AUTHENTICATED ENDPOINTS =====

// Me returns the caller's own profile.
// @Summary Get own profile
// @Tags accounts
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /me [get]
func (h *AccountHandler) Me(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), actor.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
