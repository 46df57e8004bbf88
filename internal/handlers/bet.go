package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spinbazar-backend/internal/middleware"
	"spinbazar-backend/internal/models"
	"spinbazar-backend/internal/services"
)

type BetHandler struct {
	wallets *services.WalletService
}

func NewBetHandler(wallets *services.WalletService) *BetHandler {
	return &BetHandler{wallets: wallets}
}

func (h *BetHandler) PlaceBet(c *gin.Context) {
	user := middleware.UserFrom(c)

	var req models.PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	balance, err := h.wallets.PlaceBet(c.Request.Context(), user.ID, req.BetAmount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bet placed successfully.",
		"balance": balance,
	})
}

func (h *BetHandler) WinBet(c *gin.Context) {
	user := middleware.UserFrom(c)

	var req models.WinBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	balance, err := h.wallets.WinBet(c.Request.Context(), user.ID, req.WinAmount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Congratulations! You won!",
		"balance": balance,
	})
}
