package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"miner-backend/internal/common/logger"
	"miner-backend/internal/features/auth/models"
	"miner-backend/internal/features/auth/service"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/telegram", h.loginTelegram)
		auth.POST("/telegram/miniapp", h.loginMiniApp)
		auth.GET("/exists/:telegramId", h.checkExists)
	}
}

// @Summary Login with Telegram widget payload
// @Description Verifies the login-widget signature, provisions the account and wallet on first contact and returns an access token.
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} service.LoginResult "Token and user"
// @Failure 400 {object} map[string]string "Malformed payload"
// @Failure 401 {object} map[string]string "Signature mismatch"
// @Router /auth/telegram [post]
func (h *AuthHandler) loginTelegram(c *gin.Context) {
	var data models.TelegramLoginData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login payload"})
		return
	}

	result, err := h.service.LoginWithTelegram(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLogin) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Telegram login data"})
			return
		}
		logger.Error().Err(err).Msg("telegram login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, result)
}

type miniAppLoginRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

// @Summary Login with mini-app init data
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} service.LoginResult "Token and user"
// @Failure 401 {object} map[string]string "Invalid init data"
// @Router /auth/telegram/miniapp [post]
func (h *AuthHandler) loginMiniApp(c *gin.Context) {
	var req miniAppLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "init_data is required"})
		return
	}

	result, err := h.service.LoginWithInitData(c.Request.Context(), req.InitData)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInitData) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to validate init data"})
			return
		}
		logger.Error().Err(err).Msg("miniapp login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary Check whether a first-time user exists
// @Description True only when the user exists and their first-time flag is set.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /auth/exists/{telegramId} [get]
func (h *AuthHandler) checkExists(c *gin.Context) {
	telegramID, err := strconv.ParseInt(c.Param("telegramId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid telegram id"})
		return
	}

	exists, err := h.service.CheckUserExists(c.Request.Context(), telegramID)
	if err != nil {
		logger.Error().Err(err).Int64("telegram_id", telegramID).Msg("exists check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}
