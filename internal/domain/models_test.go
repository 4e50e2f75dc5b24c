package domain

import (
	"errors"
	"testing"
)

func TestNameKeyIsCaseInsensitive(t *testing.T) {
	if NameKey("Ada", "Lovelace") != NameKey(" ada ", "LOVELACE") {
		t.Fatalf("expected name keys to match")
	}
	if NameKey("Ada", "Lovelace") == NameKey("Ada", "Byron") {
		t.Fatalf("expected different last names to differ")
	}
	if NameKey("a b", "c") == NameKey("a", "b c") {
		t.Fatalf("expected split position to matter")
	}
}

func TestPublicStripsAnswerKey(t *testing.T) {
	q := Question{ID: "q1", Text: "Pick", Type: QuestionMultipleChoice, Choices: []string{"A", "B"}, CorrectAnswer: "a"}
	pub := q.Public()
	if pub.CorrectAnswer != "" {
		t.Fatalf("expected answer key stripped, got %q", pub.CorrectAnswer)
	}
	if q.CorrectAnswer != "a" {
		t.Fatalf("expected original question untouched")
	}
}

func TestQuizValidate(t *testing.T) {
	tests := []struct {
		name    string
		quiz    Quiz
		wantErr bool
	}{
		{"valid", Quiz{Questions: []Question{
			{ID: "q1", Type: QuestionMultipleChoice, CorrectAnswer: "a"},
			{ID: "q2", Type: QuestionOpenEnded},
		}}, false},
		{"missing id", Quiz{Questions: []Question{{Type: QuestionOpenEnded}}}, true},
		{"duplicate id", Quiz{Questions: []Question{
			{ID: "q1", Type: QuestionOpenEnded},
			{ID: "q1", Type: QuestionOpenEnded},
		}}, true},
		{"mcq without key", Quiz{Questions: []Question{{ID: "q1", Type: QuestionMultipleChoice}}}, true},
		{"unknown type", Quiz{Questions: []Question{{ID: "q1", Type: "essay"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.quiz.Validate()
			if tt.wantErr && !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
