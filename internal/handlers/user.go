package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spinbazar-backend/internal/middleware"
	"spinbazar-backend/internal/models"
	"spinbazar-backend/internal/services"
)

const eventPushInterval = 5 * time.Second

type UserHandler struct {
	auth         *services.AuthService
	store        *services.RedisService
	pushInterval time.Duration
}

func NewUserHandler(auth *services.AuthService, store *services.RedisService) *UserHandler {
	return &UserHandler{auth: auth, store: store, pushInterval: eventPushInterval}
}

// Account returns the profile, wallet and transaction history. Payments are
// stripped of card metadata.
func (h *UserHandler) Account(c *gin.Context) {
	user := middleware.UserFrom(c)

	wallet, err := h.store.GetWallet(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	payments, err := h.store.GetUserPayments(c.Request.Context(), user.ID, 50)
	if err != nil {
		respondError(c, err)
		return
	}

	transactions := make([]models.PaymentSummary, 0, len(payments))
	for _, p := range payments {
		transactions = append(transactions, p.Summary())
	}

	c.JSON(http.StatusOK, gin.H{
		"userData":     user.Public(),
		"wallet":       wallet,
		"transactions": transactions,
	})
}

// UserData is the slim DTO the frontend loads on the main page.
func (h *UserHandler) UserData(c *gin.Context) {
	user := middleware.UserFrom(c)

	wallet, err := h.store.GetWallet(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"username": user.UserName,
			"xp":       user.XP,
			"role":     user.Role,
			"wallet":   wallet,
		},
	})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	user := middleware.UserFrom(c)

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	if fieldErrs := models.ValidatePassword("newPassword", req.NewPassword); len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	if req.NewPassword != req.NewPasswordConfirmation {
		c.JSON(http.StatusBadRequest, gin.H{"message": "New passwords do not match."})
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully."})
}

func (h *UserHandler) ChangeEmail(c *gin.Context) {
	user := middleware.UserFrom(c)

	var req models.ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	if !models.ValidEmail(req.NewEmail) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []models.FieldError{{Field: "newEmail", Message: "Invalid email."}}})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password is required."})
		return
	}

	if err := h.auth.ChangeEmail(c.Request.Context(), user.ID, req.Password, req.NewEmail); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email changed successfully."})
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	user := middleware.UserFrom(c)

	var req models.DeactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password is required."})
		return
	}

	if err := h.auth.Deactivate(c.Request.Context(), user.ID, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deactivated successfully."})
}

// Event streams balance and xp over SSE every five seconds until the client
// disconnects. The ticker is released on disconnect.
func (h *UserHandler) Event(c *gin.Context) {
	user := middleware.UserFrom(c)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	ticker := time.NewTicker(h.pushInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fresh, err := h.store.GetUser(ctx, user.ID)
			if err != nil {
				continue
			}
			wallet, err := h.store.GetWallet(ctx, user.ID)
			if err != nil {
				continue
			}

			payload, err := json.Marshal(gin.H{
				"userData": gin.H{
					"id":      fresh.ID,
					"xp":      fresh.XP,
					"balance": wallet.Balance,
				},
			})
			if err != nil {
				continue
			}

			fmt.Fprintf(c.Writer, "data:%s\n\n", payload)
			c.Writer.Flush()
		}
	}
}
