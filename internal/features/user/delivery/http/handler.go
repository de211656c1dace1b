package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"miner-backend/internal/common/logger"
	authmw "miner-backend/internal/features/auth/middleware"
	"miner-backend/internal/features/user/repository"
	"miner-backend/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes registers authenticated user routes behind the gate.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, gate gin.HandlerFunc) {
	users := router.Group("/users", gate)
	{
		users.GET("/me", h.getMe)
	}

	mining := router.Group("/mining", gate)
	{
		mining.POST("/claim", h.claimMining)
	}
}

// @Summary Get current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string
// @Router /users/me [get]
func (h *UserHandler) getMe(c *gin.Context) {
	session, ok := authmw.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.service.GetByTelegramID(c.Request.Context(), session.TelegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error().Err(err).Str("user_id", session.UserID).Msg("failed to load user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Points is validated by the service so zero and negative values get
// the same specific rejection instead of a generic binding error.
type claimRequest struct {
	Points float64 `json:"points"`
}

// @Summary Claim mining points
// @Description Credits the claimed points and pays the upline a flat 10% bonus.
// @Tags mining
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ClaimResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /mining/claim [post]
func (h *UserHandler) claimMining(c *gin.Context) {
	session, ok := authmw.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid claim payload"})
		return
	}

	result, err := h.service.ClaimMiningPoints(c.Request.Context(), session.UserID, session.TelegramID, req.Points)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPoints):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Points must be positive"})
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			logger.Error().Err(err).Str("user_id", session.UserID).Msg("mining claim failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim mining points"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
