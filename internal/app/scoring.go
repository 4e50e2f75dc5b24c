package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"classroom-quiz-service/internal/domain"
)

// NoAnswer is recorded for open-ended questions left blank.
const NoAnswer = "No answer"

// GradeSubmission auto-grades multiple-choice answers and collects open-ended ones.
// It is a pure function of its inputs.
func GradeSubmission(questions []domain.Question, answers domain.Answers) domain.Grade {
	grade := domain.Grade{OpenEndedAnswers: make(map[string]string)}
	for _, q := range questions {
		answer := answers[q.ID]
		switch q.Type {
		case domain.QuestionMultipleChoice:
			grade.TotalMCQs++
			if answerMatches(answer, q.CorrectAnswer) {
				grade.Score++
			}
		case domain.QuestionOpenEnded:
			if strings.TrimSpace(answer) == "" {
				answer = NoAnswer
			}
			grade.OpenEndedAnswers[q.ID] = answer
		}
	}
	return grade
}

func answerMatches(answer, correct string) bool {
	answer = strings.TrimSpace(answer)
	return answer != "" && strings.EqualFold(answer, strings.TrimSpace(correct))
}

// Submit grades and stores a student's answers. A student submits exactly once.
func (s *QuizService) Submit(ctx context.Context, token string, answers domain.Answers) (domain.Submission, error) {
	if token == "" || answers == nil {
		return domain.Submission{}, fmt.Errorf("%w: token and answers are required", domain.ErrValidation)
	}

	student, err := s.users.FindByToken(ctx, token)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && student.Role != domain.RoleStudent) {
		return domain.Submission{}, domain.ErrInvalidToken
	}
	if err != nil {
		return domain.Submission{}, err
	}

	if _, err := s.submissions.Get(ctx, token); err == nil {
		return domain.Submission{}, domain.ErrDuplicateSubmission
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Submission{}, err
	}

	session, _, err := s.gate(ctx)
	if err != nil {
		return domain.Submission{}, err
	}

	quiz, err := s.quizzes.GetQuiz(ctx, s.quizID)
	if err != nil {
		return domain.Submission{}, err
	}

	grade := GradeSubmission(quiz.Questions, answers)
	submission := domain.Submission{
		Token:            token,
		StudentName:      student.FullName(),
		SessionID:        session.ID,
		Answers:          answers,
		OpenEndedAnswers: grade.OpenEndedAnswers,
		OpenAnswerGrades: make(map[string]bool),
		Score:            grade.Score,
		TotalMCQs:        grade.TotalMCQs,
		SubmittedAt:      s.now().UTC(),
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return domain.Submission{}, err
	}
	return submission, nil
}

// Questions returns the quiz without answer keys while the session is open.
func (s *QuizService) Questions(ctx context.Context) (int64, []domain.Question, error) {
	remaining, err := s.Gate(ctx)
	if err != nil {
		return 0, nil, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, s.quizID)
	if err != nil {
		return 0, nil, err
	}
	questions := make([]domain.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = q.Public()
	}
	return remaining, questions, nil
}
