package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spinbazar-backend/internal/middleware"
	"spinbazar-backend/internal/services"
)

type BonusHandler struct {
	wallets *services.WalletService
}

func NewBonusHandler(wallets *services.WalletService) *BonusHandler {
	return &BonusHandler{wallets: wallets}
}

func (h *BonusHandler) ClaimDaily(c *gin.Context) {
	user := middleware.UserFrom(c)

	balance, bonus, err := h.wallets.ClaimDailyBonus(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Daily bonus claimed successfully.",
		"bonus":   bonus,
		"balance": balance,
	})
}
