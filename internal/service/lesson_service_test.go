package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hearsay/internal/domain"
	"hearsay/internal/port"
	"hearsay/internal/service"
	"hearsay/mocks"
)

type lessonFixture struct {
	scenarios *mocks.MockScenarioRepo
	lessons   *mocks.MockLessonRepo
	attempts  *mocks.MockAttemptRepo
	profiles  *mocks.MockProfileRepo
	storage   *mocks.MockObjectStorage
	svc       service.LessonService
}

func setupLessons(withStorage bool) *lessonFixture {
	f := &lessonFixture{
		scenarios: new(mocks.MockScenarioRepo),
		lessons:   new(mocks.MockLessonRepo),
		attempts:  new(mocks.MockAttemptRepo),
		profiles:  new(mocks.MockProfileRepo),
		storage:   new(mocks.MockObjectStorage),
	}
	media := service.MediaConfig{URLPrefix: "/media/", Bucket: "hearsay-media", PresignExpiry: 600}
	if withStorage {
		media.Storage = f.storage
	}
	f.svc = service.NewLessonService(f.scenarios, f.lessons, f.attempts, f.profiles, media)
	return f
}

func cafeLesson() *domain.Lesson {
	return &domain.Lesson{
		ID:                  7,
		ScenarioID:          2,
		ScenarioTitle:       "At the Cafe",
		ScenarioDescription: "Order a coffee",
		LessonType:          domain.LessonTypeGist,
		Title:               "Ordering",
		Order:               1,
		EstimatedMinutes:    4,
		Steps: json.RawMessage(`[
			{"type":"audio","audio_url":"/media/es/cafe_1.mp3"},
			{"type":"question","prompt":"What did she order?"},
			{"type":"audio","audio_url":"https://cdn.example.com/x.mp3"},
			{"type":"question","prompt":"How much?"}
		]`),
	}
}

func TestLessonService_ListScenarios_DefaultsToProfileLanguage(t *testing.T) {
	f := setupLessons(false)
	f.profiles.On("GetByUserID", mock.Anything, int64(1)).
		Return(&domain.UserProfile{UserID: 1, TargetLanguage: domain.LanguageFrench}, nil)
	f.scenarios.On("ListActive", mock.Anything, "fr").Return([]domain.Scenario{{ID: 3, Title: "Au Cafe"}}, nil)

	got, err := f.svc.ListScenarios(context.Background(), 1, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Au Cafe", got[0].Title)
}

func TestLessonService_ListScenarios_ExplicitLanguageSkipsProfile(t *testing.T) {
	f := setupLessons(false)
	f.scenarios.On("ListActive", mock.Anything, "es").Return([]domain.Scenario{}, nil)

	_, err := f.svc.ListScenarios(context.Background(), 1, "es")
	require.NoError(t, err)
	f.profiles.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}

func TestLessonService_ListLessons_Summaries(t *testing.T) {
	f := setupLessons(false)
	f.profiles.On("GetByUserID", mock.Anything, int64(1)).Return(nil, domain.ErrNotFound)
	f.lessons.On("ListActive", mock.Anything, port.LessonFilter{LessonType: domain.LessonTypeGist}).
		Return([]domain.Lesson{*cafeLesson()}, nil)

	got, err := f.svc.ListLessons(context.Background(), 1, service.ListLessonsInput{LessonType: "gist"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].StepCount)
	assert.Equal(t, 2, got[0].QuestionCount)
	assert.Equal(t, int64(2), got[0].Scenario)
}

func TestLessonService_ListLessons_ScenarioFilterSkipsLanguage(t *testing.T) {
	f := setupLessons(false)
	f.lessons.On("ListActive", mock.Anything, port.LessonFilter{ScenarioID: 2}).Return([]domain.Lesson{}, nil)

	got, err := f.svc.ListLessons(context.Background(), 1, service.ListLessonsInput{ScenarioID: 2})
	require.NoError(t, err)
	assert.Empty(t, got)
	f.profiles.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
}

func TestLessonService_GetLesson_SignsLocalMedia(t *testing.T) {
	f := setupLessons(true)
	f.lessons.On("GetActive", mock.Anything, int64(7)).Return(cafeLesson(), nil)
	f.storage.On("GetPresignedURL", mock.Anything, "hearsay-media", "es/cafe_1.mp3", int64(600)).
		Return("https://s3.example.com/es/cafe_1.mp3?sig=abc", nil)

	got, err := f.svc.GetLesson(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got.Steps, 4)
	assert.Equal(t, "https://s3.example.com/es/cafe_1.mp3?sig=abc", got.Steps[0]["audio_url"])
	assert.Equal(t, "https://cdn.example.com/x.mp3", got.Steps[2]["audio_url"])
	assert.Equal(t, "Order a coffee", got.ScenarioDescription)
	f.storage.AssertNumberOfCalls(t, "GetPresignedURL", 1)
}

func TestLessonService_GetLesson_PresignFailureKeepsPath(t *testing.T) {
	f := setupLessons(true)
	f.lessons.On("GetActive", mock.Anything, int64(7)).Return(cafeLesson(), nil)
	f.storage.On("GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("no credentials"))

	got, err := f.svc.GetLesson(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "/media/es/cafe_1.mp3", got.Steps[0]["audio_url"])
}

func TestLessonService_GetLesson_NoSteps(t *testing.T) {
	f := setupLessons(false)
	f.lessons.On("GetActive", mock.Anything, int64(8)).Return(&domain.Lesson{ID: 8}, nil)

	got, err := f.svc.GetLesson(context.Background(), 8)
	require.NoError(t, err)
	assert.NotNil(t, got.Steps)
	assert.Empty(t, got.Steps)
}

func TestLessonService_GetLesson_NotFound(t *testing.T) {
	f := setupLessons(false)
	f.lessons.On("GetActive", mock.Anything, int64(99)).Return(nil, domain.ErrLessonNotFound)

	_, err := f.svc.GetLesson(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrLessonNotFound)
}

func TestLessonService_RecordAttempt(t *testing.T) {
	f := setupLessons(false)
	f.lessons.On("GetActive", mock.Anything, int64(7)).Return(cafeLesson(), nil)
	f.attempts.On("Record", mock.Anything, mock.AnythingOfType("*domain.Attempt"), mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Attempt).ID = 42 }).
		Return(nil)

	got, err := f.svc.RecordAttempt(context.Background(), 5, 7, service.RecordAttemptInput{
		Score:           ptr(0.5),
		Responses:       json.RawMessage(`[{"correct":true},{"correct":false}]`),
		DurationSeconds: ptr(125),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, int64(7), got.Lesson)
	assert.Equal(t, "Ordering", got.LessonTitle)
	assert.True(t, got.IsCompleted)
	assert.Equal(t, 1, got.CorrectCount)
	assert.Equal(t, 2, got.TotalQuestions)
}

func TestLessonService_RecordAttempt_DefaultsResponses(t *testing.T) {
	f := setupLessons(false)
	f.lessons.On("GetActive", mock.Anything, int64(7)).Return(cafeLesson(), nil)
	var recorded *domain.Attempt
	f.attempts.On("Record", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(*domain.Attempt) }).
		Return(nil)

	got, err := f.svc.RecordAttempt(context.Background(), 5, 7, service.RecordAttemptInput{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(recorded.Responses))
	assert.Equal(t, 0, got.TotalQuestions)
	assert.Nil(t, got.Score)
}

func TestLessonService_RecordAttempt_RejectsNonListResponses(t *testing.T) {
	f := setupLessons(false)
	f.lessons.On("GetActive", mock.Anything, int64(7)).Return(cafeLesson(), nil)

	_, err := f.svc.RecordAttempt(context.Background(), 5, 7, service.RecordAttemptInput{
		Responses: json.RawMessage(`{"correct":true}`),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	f.attempts.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestLessonService_ListAttempts_UnknownLesson(t *testing.T) {
	f := setupLessons(false)
	f.lessons.On("GetActive", mock.Anything, int64(99)).Return(nil, domain.ErrLessonNotFound)

	_, err := f.svc.ListAttempts(context.Background(), 5, 99)
	assert.ErrorIs(t, err, domain.ErrLessonNotFound)
}

func TestLessonService_ListAttempts(t *testing.T) {
	f := setupLessons(false)
	f.lessons.On("GetActive", mock.Anything, int64(7)).Return(cafeLesson(), nil)
	f.attempts.On("ListRecent", mock.Anything, int64(5), int64(7), 10).
		Return([]domain.Attempt{{ID: 1, LessonID: 7}}, nil)

	got, err := f.svc.ListAttempts(context.Background(), 5, 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsCompleted)
	assert.JSONEq(t, `[]`, string(got[0].Responses))
}

func TestLessonService_TodayPlan(t *testing.T) {
	f := setupLessons(false)
	f.profiles.On("GetByUserID", mock.Anything, int64(5)).
		Return(&domain.UserProfile{UserID: 5, TargetLanguage: domain.LanguageFrench}, nil)
	f.lessons.On("ListForPlan", mock.Anything, domain.LanguageFrench, 5).
		Return([]domain.Lesson{{ID: 1, EstimatedMinutes: 4}, {ID: 2, EstimatedMinutes: 6}}, nil)
	f.attempts.On("CountCompletedOn", mock.Anything, int64(5), mock.Anything).Return(2, nil)

	plan, err := f.svc.TodayPlan(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, plan.Lessons, 2)
	assert.Equal(t, 10, plan.TotalMinutes)
	assert.Equal(t, 2, plan.CompletedToday)
	assert.Equal(t, domain.LanguageFrench, plan.TargetLanguage)
}

func TestLessonService_TodayPlan_WithoutProfile(t *testing.T) {
	f := setupLessons(false)
	f.profiles.On("GetByUserID", mock.Anything, int64(6)).Return(nil, domain.ErrNotFound)
	f.lessons.On("ListForPlan", mock.Anything, domain.LanguageSpanish, 5).Return([]domain.Lesson{}, nil)
	f.attempts.On("CountCompletedOn", mock.Anything, int64(6), mock.Anything).Return(0, nil)

	plan, err := f.svc.TodayPlan(context.Background(), 6)
	require.NoError(t, err)
	assert.NotNil(t, plan.Lessons)
	assert.Equal(t, 0, plan.TotalMinutes)
	assert.Equal(t, domain.LanguageSpanish, plan.TargetLanguage)
}
