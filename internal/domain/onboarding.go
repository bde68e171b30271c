package domain

import (
	"encoding/json"
	"time"
)

// Profile defaults applied at onboarding.
const (
	DefaultNativeLanguage         = "en"
	DefaultSessionsPerWeek        = 3
	MinSessionsPerWeek            = 1
	MaxSessionsPerWeek            = 7
	DefaultSessionDurationMinutes = 15
	DefaultTimezone               = "UTC"
)

// ValidTargetLanguages is the set of languages a learner can choose.
var ValidTargetLanguages = map[TargetLanguage]bool{
	LanguageSpanish: true,
	LanguageFrench:  true,
}

// IsReminderTime reports whether s is a 24-hour HH:MM clock time.
func IsReminderTime(s string) bool {
	if len(s) != len("15:04") {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// NormalizeSessionsPerWeek keeps values in 1..7 and falls back to the default otherwise.
func NormalizeSessionsPerWeek(n int) int {
	if n < MinSessionsPerWeek || n > MaxSessionsPerWeek {
		return DefaultSessionsPerWeek
	}
	return n
}

// SessionsPerWeek is a weekly session target as sent by clients. Any value
// that is not an integer in 1..7 decodes to the default instead of failing.
type SessionsPerWeek int

func (s *SessionsPerWeek) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		*s = DefaultSessionsPerWeek
		return nil
	}
	*s = SessionsPerWeek(NormalizeSessionsPerWeek(n))
	return nil
}
