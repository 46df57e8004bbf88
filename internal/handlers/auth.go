package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"spinbazar-backend/internal/models"
	"spinbazar-backend/internal/services"
)

const refreshCookieName = "refreshToken"

type AuthHandler struct {
	auth   *services.AuthService
	tokens *services.TokenService
}

func NewAuthHandler(auth *services.AuthService, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

// Register handles POST /auth/register. On success it returns 201 with the
// access token and sets the refresh cookie.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	_, wallet, pair, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Succesful registration.",
		"token":   pair.AccessToken,
		"wallet":  wallet,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	user, wallet, pair, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invalid credentials."})
			return
		}
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully.",
		"token":   pair.AccessToken,
		"user":    user.Public(),
		"wallet":  wallet,
	})
}

// Refresh rotates the token pair carried by the refresh cookie. A reused or
// unknown token is rejected; the cookie is only replaced on success.
func (h *AuthHandler) Refresh(c *gin.Context) {
	oldToken, err := c.Cookie(refreshCookieName)
	if err != nil || oldToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No refresh token provided."})
		return
	}

	pair, err := h.tokens.Rotate(c.Request.Context(), oldToken)
	if err != nil {
		h.clearRefreshCookie(c)
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"token": pair.AccessToken})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(refreshCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
		return
	}

	if err := h.tokens.Revoke(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, token, int(h.tokens.RefreshTTL().Seconds()), "/", "", true, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", true, true)
}
