package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hearsay/internal/domain"
	"hearsay/internal/logger"
	"hearsay/internal/metrics"
	"hearsay/internal/port"
)

const (
	recentAttemptsLimit = 10
	planLessonLimit     = 5
)

// MediaConfig tells the lesson service how to turn local media paths into
// object storage URLs. A nil Storage leaves paths untouched.
type MediaConfig struct {
	Storage       port.ObjectStorage
	Bucket        string
	URLPrefix     string
	PresignExpiry int64
}

// ListLessonsInput holds the lesson list filters.
type ListLessonsInput struct {
	ScenarioID int64  `form:"scenario" binding:"omitempty,min=1"`
	LessonType string `form:"type" binding:"omitempty,oneof=gist chunk roleplay"`
	Language   string `form:"language" binding:"omitempty,oneof=es fr"`
}

// RecordAttemptInput is the DTO for submitting a finished lesson.
type RecordAttemptInput struct {
	Score           *float64        `json:"score" binding:"omitempty,min=0,max=1"`
	Responses       json.RawMessage `json:"responses"`
	DurationSeconds *int            `json:"duration_seconds" binding:"omitempty,min=0"`
}

// LessonSummary is the list representation of a lesson.
type LessonSummary struct {
	ID               int64             `json:"id"`
	Scenario         int64             `json:"scenario"`
	ScenarioTitle    string            `json:"scenario_title"`
	LessonType       domain.LessonType `json:"lesson_type"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Order            int               `json:"order"`
	StepCount        int               `json:"step_count"`
	QuestionCount    int               `json:"question_count"`
	EstimatedMinutes int               `json:"estimated_minutes"`
}

// LessonDetail is a lesson with its steps.
type LessonDetail struct {
	LessonSummary
	ScenarioDescription string           `json:"scenario_description"`
	Steps               []map[string]any `json:"steps"`
}

// AttemptView is the API representation of an attempt.
type AttemptView struct {
	ID              int64           `json:"id"`
	Lesson          int64           `json:"lesson"`
	LessonTitle     string          `json:"lesson_title"`
	StartedAt       time.Time       `json:"started_at"`
	CompletedAt     *time.Time      `json:"completed_at"`
	Score           *float64        `json:"score"`
	Responses       json.RawMessage `json:"responses"`
	DurationSeconds *int            `json:"duration_seconds"`
	IsCompleted     bool            `json:"is_completed"`
	CorrectCount    int             `json:"correct_count"`
	TotalQuestions  int             `json:"total_questions"`
}

// TodayPlan is the set of lessons suggested for today.
type TodayPlan struct {
	Lessons        []LessonSummary       `json:"lessons"`
	TotalMinutes   int                   `json:"total_minutes"`
	CompletedToday int                   `json:"completed_today"`
	TargetLanguage domain.TargetLanguage `json:"target_language"`
}

// LessonService defines the learning content contract.
type LessonService interface {
	ListScenarios(ctx context.Context, userID int64, language string) ([]domain.Scenario, error)
	ListLessons(ctx context.Context, userID int64, input ListLessonsInput) ([]LessonSummary, error)
	GetLesson(ctx context.Context, lessonID int64) (*LessonDetail, error)
	ListAttempts(ctx context.Context, userID, lessonID int64) ([]AttemptView, error)
	RecordAttempt(ctx context.Context, userID, lessonID int64, input RecordAttemptInput) (*AttemptView, error)
	TodayPlan(ctx context.Context, userID int64) (*TodayPlan, error)
}

type lessonService struct {
	scenarioRepo port.ScenarioRepository
	lessonRepo   port.LessonRepository
	attemptRepo  port.AttemptRepository
	profileRepo  port.ProfileRepository
	media        MediaConfig
	now          func() time.Time
}

// NewLessonService creates a new LessonService implementation.
func NewLessonService(
	scenarioRepo port.ScenarioRepository,
	lessonRepo port.LessonRepository,
	attemptRepo port.AttemptRepository,
	profileRepo port.ProfileRepository,
	media MediaConfig,
) LessonService {
	return &lessonService{
		scenarioRepo: scenarioRepo,
		lessonRepo:   lessonRepo,
		attemptRepo:  attemptRepo,
		profileRepo:  profileRepo,
		media:        media,
		now:          time.Now,
	}
}

func (s *lessonService) ListScenarios(ctx context.Context, userID int64, language string) ([]domain.Scenario, error) {
	if language == "" {
		profileLang, err := s.profileLanguage(ctx, userID)
		if err != nil {
			return nil, err
		}
		language = string(profileLang)
	}
	return s.scenarioRepo.ListActive(ctx, language)
}

func (s *lessonService) ListLessons(ctx context.Context, userID int64, input ListLessonsInput) ([]LessonSummary, error) {
	filter := port.LessonFilter{
		ScenarioID: input.ScenarioID,
		LessonType: domain.LessonType(input.LessonType),
		Language:   input.Language,
	}
	if filter.Language == "" && filter.ScenarioID == 0 {
		profileLang, err := s.profileLanguage(ctx, userID)
		if err != nil {
			return nil, err
		}
		filter.Language = string(profileLang)
	}

	lessons, err := s.lessonRepo.ListActive(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]LessonSummary, 0, len(lessons))
	for i := range lessons {
		out = append(out, summarize(&lessons[i]))
	}
	return out, nil
}

func (s *lessonService) GetLesson(ctx context.Context, lessonID int64) (*LessonDetail, error) {
	lesson, err := s.lessonRepo.GetActive(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	steps, err := lesson.StepList()
	if err != nil {
		return nil, err
	}
	if steps == nil {
		steps = []map[string]any{}
	}
	s.signMedia(ctx, steps)

	return &LessonDetail{
		LessonSummary:       summarize(lesson),
		ScenarioDescription: lesson.ScenarioDescription,
		Steps:               steps,
	}, nil
}

func (s *lessonService) ListAttempts(ctx context.Context, userID, lessonID int64) ([]AttemptView, error) {
	if _, err := s.lessonRepo.GetActive(ctx, lessonID); err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.ListRecent(ctx, userID, lessonID, recentAttemptsLimit)
	if err != nil {
		return nil, err
	}
	out := make([]AttemptView, 0, len(attempts))
	for i := range attempts {
		out = append(out, attemptView(&attempts[i]))
	}
	return out, nil
}

func (s *lessonService) RecordAttempt(ctx context.Context, userID, lessonID int64, input RecordAttemptInput) (*AttemptView, error) {
	lesson, err := s.lessonRepo.GetActive(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	responses := input.Responses
	if len(responses) == 0 || string(responses) == "null" {
		responses = json.RawMessage("[]")
	}
	var probe []json.RawMessage
	if err := json.Unmarshal(responses, &probe); err != nil {
		return nil, fmt.Errorf("%w: responses must be a list", domain.ErrValidation)
	}

	now := s.now().UTC()
	attempt := &domain.Attempt{
		UserID:          userID,
		LessonID:        lesson.ID,
		LessonTitle:     lesson.Title,
		StartedAt:       now,
		CompletedAt:     &now,
		Score:           input.Score,
		Responses:       responses,
		DurationSeconds: input.DurationSeconds,
	}
	if err := s.attemptRepo.Record(ctx, attempt, now); err != nil {
		return nil, err
	}
	metrics.ObserveAttempt(attempt.IsCompleted())

	view := attemptView(attempt)
	return &view, nil
}

func (s *lessonService) TodayPlan(ctx context.Context, userID int64) (*TodayPlan, error) {
	language, err := s.profileLanguage(ctx, userID)
	if err != nil {
		return nil, err
	}
	if language == "" {
		language = domain.DefaultTargetLanguage
	}

	lessons, err := s.lessonRepo.ListForPlan(ctx, language, planLessonLimit)
	if err != nil {
		return nil, err
	}
	completed, err := s.attemptRepo.CountCompletedOn(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}

	plan := &TodayPlan{
		Lessons:        make([]LessonSummary, 0, len(lessons)),
		CompletedToday: completed,
		TargetLanguage: language,
	}
	for i := range lessons {
		plan.Lessons = append(plan.Lessons, summarize(&lessons[i]))
		plan.TotalMinutes += lessons[i].EstimatedMinutes
	}
	return plan, nil
}

// profileLanguage returns the user's target language, or "" without a profile.
func (s *lessonService) profileLanguage(ctx context.Context, userID int64) (domain.TargetLanguage, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return profile.TargetLanguage, nil
}

// signMedia rewrites local audio paths to presigned object storage URLs.
// A path that fails to sign is left as is.
func (s *lessonService) signMedia(ctx context.Context, steps []map[string]any) {
	if s.media.Storage == nil || s.media.URLPrefix == "" {
		return
	}
	for _, step := range steps {
		u, ok := step["audio_url"].(string)
		if !ok || !strings.HasPrefix(u, s.media.URLPrefix) {
			continue
		}
		key := strings.TrimPrefix(u, s.media.URLPrefix)
		signed, err := s.media.Storage.GetPresignedURL(ctx, s.media.Bucket, key, s.media.PresignExpiry)
		if err != nil {
			logger.From(ctx).Warn("presigning lesson audio failed", zap.String("key", key), zap.Error(err))
			continue
		}
		step["audio_url"] = signed
	}
}

func summarize(l *domain.Lesson) LessonSummary {
	return LessonSummary{
		ID:               l.ID,
		Scenario:         l.ScenarioID,
		ScenarioTitle:    l.ScenarioTitle,
		LessonType:       l.LessonType,
		Title:            l.Title,
		Description:      l.Description,
		Order:            l.Order,
		StepCount:        l.StepCount(),
		QuestionCount:    l.QuestionCount(),
		EstimatedMinutes: l.EstimatedMinutes,
	}
}

func attemptView(a *domain.Attempt) AttemptView {
	responses := a.Responses
	if len(responses) == 0 {
		responses = json.RawMessage("[]")
	}
	return AttemptView{
		ID:              a.ID,
		Lesson:          a.LessonID,
		LessonTitle:     a.LessonTitle,
		StartedAt:       a.StartedAt,
		CompletedAt:     a.CompletedAt,
		Score:           a.Score,
		Responses:       responses,
		DurationSeconds: a.DurationSeconds,
		IsCompleted:     a.IsCompleted(),
		CorrectCount:    a.CorrectCount(),
		TotalQuestions:  a.TotalQuestions(),
	}
}
