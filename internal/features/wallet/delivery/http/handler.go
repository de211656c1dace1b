package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"miner-backend/internal/common/logger"
	authmw "miner-backend/internal/features/auth/middleware"
	"miner-backend/internal/features/wallet/repository"
)

type WalletHandler struct {
	repo repository.WalletRepository
}

func NewWalletHandler(repo repository.WalletRepository) *WalletHandler {
	return &WalletHandler{repo: repo}
}

func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup, gate gin.HandlerFunc) {
	wallet := router.Group("/wallet", gate)
	{
		wallet.GET("/me", h.getMyWallet)
	}
}

// @Summary Get the session user's wallet address
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /wallet/me [get]
func (h *WalletHandler) getMyWallet(c *gin.Context) {
	session, ok := authmw.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	wallet, err := h.repo.GetByUserID(c.Request.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrWalletNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		logger.Error().Err(err).Str("user_id", session.UserID).Msg("failed to load wallet")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wallet"})
		return
	}

	// Address only; the encrypted key never leaves storage.
	c.JSON(http.StatusOK, gin.H{"address": wallet.Address})
}
