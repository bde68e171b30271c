package handler

import (
	"github.com/gin-gonic/gin"

	"hearsay/internal/service"
)

// OnboardingHandler handles onboarding endpoints.
type OnboardingHandler struct {
	onboardingService service.OnboardingService
}

// NewOnboardingHandler creates a new OnboardingHandler.
func NewOnboardingHandler(onboardingService service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

// Complete handles POST /api/v1/onboarding/complete/
func (h *OnboardingHandler) Complete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input service.CompleteOnboardingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondBindingError(c, err)
		return
	}

	result, err := h.onboardingService.Complete(c.Request.Context(), p.UserID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}
