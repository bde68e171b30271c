package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hearsay/internal/service"
)

// LessonHandler handles scenario, lesson, attempt and plan endpoints.
type LessonHandler struct {
	lessonService service.LessonService
}

// NewLessonHandler creates a new LessonHandler.
func NewLessonHandler(lessonService service.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

// ListScenarios handles GET /api/v1/scenarios/
func (h *LessonHandler) ListScenarios(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var query struct {
		Language string `form:"language" binding:"omitempty,oneof=es fr"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBindingError(c, err)
		return
	}

	scenarios, err := h.lessonService.ListScenarios(c.Request.Context(), p.UserID, query.Language)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, scenarios)
}

// ListLessons handles GET /api/v1/lessons/
func (h *LessonHandler) ListLessons(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var input service.ListLessonsInput
	if err := c.ShouldBindQuery(&input); err != nil {
		RespondBindingError(c, err)
		return
	}

	lessons, err := h.lessonService.ListLessons(c.Request.Context(), p.UserID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, lessons)
}

// GetLesson handles GET /api/v1/lessons/:id/
func (h *LessonHandler) GetLesson(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}
	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	lesson, err := h.lessonService.GetLesson(c.Request.Context(), lessonID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, lesson)
}

// ListAttempts handles GET /api/v1/lessons/:id/attempts/
func (h *LessonHandler) ListAttempts(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	attempts, err := h.lessonService.ListAttempts(c.Request.Context(), p.UserID, lessonID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, attempts)
}

// RecordAttempt handles POST /api/v1/lessons/:id/attempts/
func (h *LessonHandler) RecordAttempt(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	lessonID, ok := lessonIDParam(c)
	if !ok {
		return
	}

	var input service.RecordAttemptInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			RespondBindingError(c, err)
			return
		}
	}

	attempt, err := h.lessonService.RecordAttempt(c.Request.Context(), p.UserID, lessonID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, attempt)
}

// TodayPlan handles GET /api/v1/plan/today/
func (h *LessonHandler) TodayPlan(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	plan, err := h.lessonService.TodayPlan(c.Request.Context(), p.UserID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, plan)
}

// lessonIDParam parses the :id path parameter. Returns false if it is not a
// positive integer (error response already written).
func lessonIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusNotFound, "LESSON_NOT_FOUND", "Lesson not found")
		return 0, false
	}
	return id, true
}
