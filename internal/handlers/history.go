package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spinbazar-backend/internal/middleware"
	"spinbazar-backend/internal/models"
	"spinbazar-backend/internal/services"
)

type HistoryHandler struct {
	wallets *services.WalletService
}

func NewHistoryHandler(wallets *services.WalletService) *HistoryHandler {
	return &HistoryHandler{wallets: wallets}
}

func (h *HistoryHandler) AddHistory(c *gin.Context) {
	user := middleware.UserFrom(c)

	var req models.AddHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}
	if req.Game == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Game is required."})
		return
	}

	if _, err := h.wallets.AddHistory(c.Request.Context(), user.ID, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "History added."})
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	user := middleware.UserFrom(c)

	entries, err := h.wallets.GetHistory(c.Request.Context(), user.ID, c.Query("game"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}
