package domain

import "fmt"

// Validate checks the invariants loaders rely on: unique IDs, known types,
// and an answer key on every multiple-choice question.
func (q Quiz) Validate() error {
	seen := make(map[string]struct{}, len(q.Questions))
	for i, question := range q.Questions {
		if question.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrValidation, i)
		}
		if _, dup := seen[question.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrValidation, question.ID)
		}
		seen[question.ID] = struct{}{}

		switch question.Type {
		case QuestionMultipleChoice:
			if question.CorrectAnswer == "" {
				return fmt.Errorf("%w: question %q has no correct answer", ErrValidation, question.ID)
			}
		case QuestionOpenEnded:
		default:
			return fmt.Errorf("%w: question %q has unknown type %q", ErrValidation, question.ID, question.Type)
		}
	}
	return nil
}
