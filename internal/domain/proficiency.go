package domain

// MaxQuizScore is the number of questions in the onboarding quiz.
const MaxQuizScore = 5

// ClassifyProficiency maps an onboarding quiz score to a proficiency level.
func ClassifyProficiency(score int) (ProficiencyLevel, error) {
	switch {
	case score < 0 || score > MaxQuizScore:
		return "", ErrInvalidQuizScore
	case score <= 1:
		return ProficiencyBeginner, nil
	case score <= 3:
		return ProficiencyElementary, nil
	case score == 4:
		return ProficiencyIntermediate, nil
	default:
		return ProficiencyUpperIntermediate, nil
	}
}
