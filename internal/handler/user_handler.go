package handler

import (
	"github.com/gin-gonic/gin"

	"hearsay/internal/service"
)

// UserHandler handles the current-user endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me handles GET /api/v1/me/
func (h *UserHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, user)
}

// Update handles PATCH /api/v1/me/update/
func (h *UserHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input service.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondBindingError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), p.UserID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, user)
}
