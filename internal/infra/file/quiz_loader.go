package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"classroom-quiz-service/internal/domain"
)

// QuizLoader reads the question bank from a JSON file. The file holds either
// a bare array of questions or an object {"id": ..., "questions": [...]}.
type QuizLoader struct {
	path string
}

func NewQuizLoader(path string) *QuizLoader {
	return &QuizLoader{path: path}
}

func (l *QuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("read questions file: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var questions []domain.Question
		if err := json.Unmarshal(data, &questions); err != nil {
			return domain.Quiz{}, fmt.Errorf("parse questions file: %w", err)
		}
		return domain.Quiz{ID: quizID, Questions: questions}, nil
	}

	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("parse questions file: %w", err)
	}
	if quiz.ID != "" && quiz.ID != quizID {
		return domain.Quiz{}, fmt.Errorf("%w: file holds %s, not %s", domain.ErrQuizNotFound, quiz.ID, quizID)
	}
	quiz.ID = quizID
	return quiz, nil
}

// Roster reads teachers from a JSON array of {"firstName", "lastName"}.
// The file is re-read on every call so edits apply without a restart.
type Roster struct {
	path string
}

func NewRoster(path string) *Roster {
	return &Roster{path: path}
}

func (r *Roster) ListTeachers(context.Context) ([]domain.Teacher, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read teachers file: %w", err)
	}
	var teachers []domain.Teacher
	if err := json.Unmarshal(data, &teachers); err != nil {
		return nil, fmt.Errorf("parse teachers file: %w", err)
	}
	return teachers, nil
}
