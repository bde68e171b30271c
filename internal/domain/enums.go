package domain

// AuthProvider identifies how an account authenticates.
type AuthProvider string

const (
	AuthProviderApple  AuthProvider = "apple"
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderEmail  AuthProvider = "email"
)

// SSOProviders lists the providers accepted by the SSO endpoint.
var SSOProviders = map[AuthProvider]bool{
	AuthProviderApple:  true,
	AuthProviderGoogle: true,
}

// TargetLanguage is a language the app teaches.
type TargetLanguage string

const (
	LanguageSpanish TargetLanguage = "es"
	LanguageFrench  TargetLanguage = "fr"
)

// DefaultTargetLanguage is used when a user has no profile yet.
const DefaultTargetLanguage = LanguageSpanish

// ProficiencyLevel describes how far along a learner is. Scenarios use the same
// scale for their difficulty.
type ProficiencyLevel string

const (
	ProficiencyBeginner          ProficiencyLevel = "beginner"
	ProficiencyElementary        ProficiencyLevel = "elementary"
	ProficiencyIntermediate      ProficiencyLevel = "intermediate"
	ProficiencyUpperIntermediate ProficiencyLevel = "upper_intermediate"
	ProficiencyAdvanced          ProficiencyLevel = "advanced"
)

// ProficiencyRank orders levels from easiest to hardest.
var ProficiencyRank = map[ProficiencyLevel]int{
	ProficiencyBeginner:          0,
	ProficiencyElementary:        1,
	ProficiencyIntermediate:      2,
	ProficiencyUpperIntermediate: 3,
	ProficiencyAdvanced:          4,
}

// LessonType is the kind of exercise a lesson contains.
type LessonType string

const (
	LessonTypeGist     LessonType = "gist"     // listening comprehension
	LessonTypeChunk    LessonType = "chunk"    // repetition / speaking practice
	LessonTypeRoleplay LessonType = "roleplay" // interactive roleplay
)

// ValidLessonTypes is the set of accepted lesson types.
var ValidLessonTypes = map[LessonType]bool{
	LessonTypeGist:     true,
	LessonTypeChunk:    true,
	LessonTypeRoleplay: true,
}

// StepTypeQuestion marks a lesson step that asks the learner something.
const StepTypeQuestion = "question"

// ResolveOutcome reports which branch of identity resolution produced an account.
type ResolveOutcome string

const (
	OutcomeMatched     ResolveOutcome = "matched"
	OutcomeLinked      ResolveOutcome = "linked"
	OutcomeProvisioned ResolveOutcome = "provisioned"
)
