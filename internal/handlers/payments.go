package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spinbazar-backend/internal/middleware"
	"spinbazar-backend/internal/models"
	"spinbazar-backend/internal/services"
)

type PaymentsHandler struct {
	wallets *services.WalletService
}

func NewPaymentsHandler(wallets *services.WalletService) *PaymentsHandler {
	return &PaymentsHandler{wallets: wallets}
}

func (h *PaymentsHandler) Deposit(c *gin.Context) {
	user := middleware.UserFrom(c)

	var req models.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	if req.Amount == 0 || req.CardNumber == "" || req.CVV == "" || req.ExpireDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required."})
		return
	}

	balance, payment, err := h.wallets.Deposit(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Deposit successful.",
		"balance": balance,
		"payment": payment.Summary(),
	})
}

func (h *PaymentsHandler) Withdraw(c *gin.Context) {
	user := middleware.UserFrom(c)

	var req models.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	if req.Amount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Fields are required."})
		return
	}

	balance, payment, err := h.wallets.Withdraw(c.Request.Context(), user.ID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Withdrawal successful.",
		"balance": balance,
		"payment": payment.Summary(),
	})
}
