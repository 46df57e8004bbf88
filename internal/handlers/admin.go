package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spinbazar-backend/internal/models"
	"spinbazar-backend/internal/services"
)

type AdminHandler struct {
	store *services.RedisService
}

func NewAdminHandler(store *services.RedisService) *AdminHandler {
	return &AdminHandler{store: store}
}

func (h *AdminHandler) GetUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	public := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}

	c.JSON(http.StatusOK, gin.H{"users": public})
}

func (h *AdminHandler) SuspendUser(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if user.IsAdmin() {
		respondError(c, services.ErrCannotSuspendAdmin)
		return
	}
	if !user.IsActive {
		respondError(c, services.ErrAlreadySuspended)
		return
	}

	user.IsActive = false
	if err := h.store.SaveUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User suspended."})
}

func (h *AdminHandler) ActivateUser(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if user.IsActive {
		respondError(c, services.ErrAlreadyActive)
		return
	}

	user.IsActive = true
	if err := h.store.SaveUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User activated."})
}

// EditUser patches email, xp or role. Email changes go through the index
// move so uniqueness holds.
func (h *AdminHandler) EditUser(c *gin.Context) {
	var req models.EditUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
		return
	}

	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.GetUser(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if req.XP != nil {
		user.XP = *req.XP
	}
	if req.Role != nil {
		user.Role = *req.Role
	}

	if req.Email != nil {
		err = h.store.ChangeUserEmail(ctx, user, *req.Email)
	} else {
		err = h.store.SaveUser(ctx, user)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated.", "user": user.Public()})
}
