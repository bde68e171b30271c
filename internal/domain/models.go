package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UnusablePasswordPrefix marks a password hash that can never match.
const UnusablePasswordPrefix = "!"

// User is a local account. SSO accounts carry the provider and the provider's
// subject id; the pair is unique across accounts.
type User struct {
	ID                  int64         `db:"id" json:"id"`
	Email               string        `db:"email" json:"email"`
	Username            string        `db:"username" json:"username"`
	FirstName           string        `db:"first_name" json:"first_name"`
	LastName            string        `db:"last_name" json:"last_name"`
	PasswordHash        string        `db:"password_hash" json:"-"`
	Provider            *AuthProvider `db:"sso_provider" json:"provider"`
	SubjectID           *string       `db:"sso_id" json:"-"`
	OnboardingCompleted bool          `db:"onboarding_completed" json:"onboarding_completed"`
	LastLoginAt         *time.Time    `db:"last_login_at" json:"-"`
	CreatedAt           time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time     `db:"updated_at" json:"updated_at"`

	Profile *UserProfile `db:"-" json:"profile"`
}

// HasUsablePassword reports whether the account can log in with a password.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != "" && !strings.HasPrefix(u.PasswordHash, UnusablePasswordPrefix)
}

// ExternalIdentity is a verified assertion about who is signing in, produced by
// a token verifier and consumed once by the identity resolver.
type ExternalIdentity struct {
	Provider  AuthProvider
	SubjectID string
	Email     string
	FirstName string
	LastName  string
}

// UserProfile holds learning preferences and progress, created by onboarding.
type UserProfile struct {
	UserID                 int64            `db:"user_id" json:"-"`
	TargetLanguage         TargetLanguage   `db:"target_language" json:"target_language"`
	NativeLanguage         string           `db:"native_language" json:"native_language"`
	ProficiencyLevel       ProficiencyLevel `db:"proficiency_level" json:"proficiency_level"`
	Goals                  StringList       `db:"goals" json:"goals"`
	SessionsPerWeek        int              `db:"sessions_per_week" json:"sessions_per_week"`
	SessionDurationMinutes int              `db:"session_duration_minutes" json:"session_duration_minutes"`
	NotificationsEnabled   bool             `db:"notifications_enabled" json:"notifications_enabled"`
	ReminderTime           *string          `db:"reminder_time" json:"reminder_time"`
	Timezone               string           `db:"timezone" json:"timezone"`
	TotalLessonsCompleted  int              `db:"total_lessons_completed" json:"total_lessons_completed"`
	TotalPracticeMinutes   int              `db:"total_practice_minutes" json:"total_practice_minutes"`
	CurrentStreakDays      int              `db:"current_streak_days" json:"current_streak_days"`
	LongestStreakDays      int              `db:"longest_streak_days" json:"longest_streak_days"`
	LastActivityDate       *time.Time       `db:"last_activity_date" json:"last_activity_date"`
	CreatedAt              time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time        `db:"updated_at" json:"updated_at"`
}

// Scenario groups lessons around a real-world context such as ordering at a cafe.
type Scenario struct {
	ID          int64            `db:"id" json:"id"`
	Title       string           `db:"title" json:"title"`
	Description string           `db:"description" json:"description"`
	ContextTags StringList       `db:"context_tags" json:"context_tags"`
	Language    TargetLanguage   `db:"language" json:"language"`
	Difficulty  ProficiencyLevel `db:"difficulty" json:"difficulty"`
	ImageURL    *string          `db:"image_url" json:"image_url"`
	IsActive    bool             `db:"is_active" json:"-"`
	LessonCount int              `db:"lesson_count" json:"lesson_count"`
	CreatedAt   time.Time        `db:"created_at" json:"-"`
	UpdatedAt   time.Time        `db:"updated_at" json:"-"`
}

// Lesson is a sequence of steps (audio, question, reveal...) within a scenario.
type Lesson struct {
	ID                  int64           `db:"id" json:"id"`
	ScenarioID          int64           `db:"scenario_id" json:"scenario"`
	ScenarioTitle       string          `db:"scenario_title" json:"scenario_title"`
	ScenarioDescription string          `db:"scenario_description" json:"-"`
	LessonType          LessonType      `db:"lesson_type" json:"lesson_type"`
	Title               string          `db:"title" json:"title"`
	Description         string          `db:"description" json:"description"`
	Order               int             `db:"sort_order" json:"-"`
	Steps               json.RawMessage `db:"steps" json:"-"`
	EstimatedMinutes    int             `db:"estimated_minutes" json:"estimated_minutes"`
	IsActive            bool            `db:"is_active" json:"-"`
	CreatedAt           time.Time       `db:"created_at" json:"-"`
	UpdatedAt           time.Time       `db:"updated_at" json:"-"`
}

// StepList decodes the lesson steps. A missing or null steps column yields no steps.
func (l *Lesson) StepList() ([]map[string]any, error) {
	if len(l.Steps) == 0 {
		return nil, nil
	}
	var steps []map[string]any
	if err := json.Unmarshal(l.Steps, &steps); err != nil {
		return nil, fmt.Errorf("decoding lesson %d steps: %w", l.ID, err)
	}
	return steps, nil
}

// StepCount returns the number of steps in the lesson.
func (l *Lesson) StepCount() int {
	steps, _ := l.StepList()
	return len(steps)
}

// QuestionCount returns the number of question steps in the lesson.
func (l *Lesson) QuestionCount() int {
	steps, _ := l.StepList()
	n := 0
	for _, s := range steps {
		if t, _ := s["type"].(string); t == StepTypeQuestion {
			n++
		}
	}
	return n
}

// Attempt records one pass through a lesson by a user.
type Attempt struct {
	ID              int64           `db:"id"`
	UserID          int64           `db:"user_id"`
	LessonID        int64           `db:"lesson_id"`
	LessonTitle     string          `db:"lesson_title"`
	StartedAt       time.Time       `db:"started_at"`
	CompletedAt     *time.Time      `db:"completed_at"`
	Score           *float64        `db:"score"`
	Responses       json.RawMessage `db:"responses"`
	DurationSeconds *int            `db:"duration_seconds"`
}

// IsCompleted reports whether the attempt has been finished.
func (a *Attempt) IsCompleted() bool {
	return a.CompletedAt != nil
}

func (a *Attempt) responseList() []map[string]any {
	if len(a.Responses) == 0 {
		return nil
	}
	var out []map[string]any
	if err := json.Unmarshal(a.Responses, &out); err != nil {
		return nil
	}
	return out
}

// CorrectCount counts responses flagged as correct.
func (a *Attempt) CorrectCount() int {
	n := 0
	for _, r := range a.responseList() {
		if ok, _ := r["correct"].(bool); ok {
			n++
		}
	}
	return n
}

// TotalQuestions counts recorded responses.
func (a *Attempt) TotalQuestions() int {
	return len(a.responseList())
}

// StringList is a []string persisted as a JSON array.
type StringList []string

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("StringList: unsupported scan source")
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringList: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*s = out
	return nil
}
