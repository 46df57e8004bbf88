package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"spinbazar-backend/internal/services"
)

// respondError maps service-layer failures onto HTTP statuses with a single
// English message field. Anything unrecognized is a 500 with no internal
// detail leaked.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username or Email already in use."})
	case errors.Is(err, services.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Passwords do not match."})
	case errors.Is(err, services.ErrUnderage):
		c.JSON(http.StatusBadRequest, gin.H{"message": "You must be at least 18 years old to register."})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials."})
	case errors.Is(err, services.ErrAccountSuspended):
		c.JSON(http.StatusForbidden, gin.H{"message": "Your account is suspended, contact with our support."})
	case errors.Is(err, services.ErrWalletNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Wallet not found, contact support."})
	case errors.Is(err, services.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient balance."})
	case errors.Is(err, services.ErrBonusAlreadyClaimed):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Daily bonus already claimed."})
	case errors.Is(err, services.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Amount must be a positive number."})
	case errors.Is(err, services.ErrInvalidCardNumber):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid card number."})
	case errors.Is(err, services.ErrInvalidCVV):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid CVV."})
	case errors.Is(err, services.ErrInvalidExpiry):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid expiration date."})
	case errors.Is(err, services.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token."})
	case errors.Is(err, services.ErrRefreshReused):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Token has been already used or expired."})
	case errors.Is(err, services.ErrCannotSuspendAdmin):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot suspend an admin."})
	case errors.Is(err, services.ErrAlreadySuspended):
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already suspended."})
	case errors.Is(err, services.ErrAlreadyActive):
		c.JSON(http.StatusBadRequest, gin.H{"message": "User already active."})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
	}
}
