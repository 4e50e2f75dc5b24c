package app

import (
	"context"
	"errors"
	"fmt"

	"classroom-quiz-service/internal/domain"
)

// Results returns the caller's graded submission. Answer keys stay hidden
// while the session is still open.
func (s *QuizService) Results(ctx context.Context, token string) (domain.StudentResults, error) {
	if _, err := s.Lookup(ctx, token); err != nil {
		return domain.StudentResults{}, err
	}
	submission, err := s.submissions.Get(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.StudentResults{}, fmt.Errorf("%w: no submission for this token", domain.ErrNotFound)
	}
	if err != nil {
		return domain.StudentResults{}, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, s.quizID)
	if err != nil {
		return domain.StudentResults{}, err
	}
	status, err := s.Status(ctx)
	if err != nil {
		return domain.StudentResults{}, err
	}

	results := make([]domain.QuestionResult, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		row := domain.QuestionResult{QuestionID: q.ID, Question: q.Text, Type: q.Type}
		switch q.Type {
		case domain.QuestionMultipleChoice:
			row.Answer = submission.Answers[q.ID]
			correct := answerMatches(row.Answer, q.CorrectAnswer)
			row.Correct = &correct
			if !status.Open {
				row.CorrectAnswer = q.CorrectAnswer
			}
		case domain.QuestionOpenEnded:
			row.Answer = submission.OpenEndedAnswers[q.ID]
			if grade, ok := submission.OpenAnswerGrades[q.ID]; ok {
				row.Correct = &grade
			}
		}
		results = append(results, row)
	}

	return domain.StudentResults{
		StudentName: submission.StudentName,
		SubmittedAt: submission.SubmittedAt,
		Score:       submission.Score,
		TotalMCQs:   submission.TotalMCQs,
		Results:     results,
	}, nil
}

// CheckSubmitted reports whether the token has a submission on record.
func (s *QuizService) CheckSubmitted(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, fmt.Errorf("%w: token is required", domain.ErrValidation)
	}
	_, err := s.submissions.Get(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// TeacherResults summarises every submission. totalQuestions counts
// multiple-choice and open-ended questions alike.
func (s *QuizService) TeacherResults(ctx context.Context, token string) ([]domain.ResultSummary, error) {
	if _, err := s.requireTeacher(ctx, token); err != nil {
		return nil, err
	}
	submissions, err := s.submissions.List(ctx)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, s.quizID)
	if err != nil {
		return nil, err
	}
	openCount := 0
	for _, q := range quiz.Questions {
		if q.Type == domain.QuestionOpenEnded {
			openCount++
		}
	}

	summaries := make([]domain.ResultSummary, 0, len(submissions))
	for _, sub := range submissions {
		summaries = append(summaries, domain.ResultSummary{
			StudentName:    sub.StudentName,
			CorrectCount:   sub.Score,
			TotalQuestions: sub.TotalMCQs + openCount,
		})
	}
	return summaries, nil
}

// OpenAnswers lists open-ended answers per student for manual grading.
func (s *QuizService) OpenAnswers(ctx context.Context, token string) ([]domain.OpenAnswerSheet, error) {
	if _, err := s.requireTeacher(ctx, token); err != nil {
		return nil, err
	}
	submissions, err := s.submissions.List(ctx)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, s.quizID)
	if err != nil {
		return nil, err
	}

	var sheets []domain.OpenAnswerSheet
	for _, sub := range submissions {
		if len(sub.OpenEndedAnswers) == 0 {
			continue
		}
		sheet := domain.OpenAnswerSheet{StudentName: sub.StudentName}
		for _, q := range quiz.Questions {
			answer, ok := sub.OpenEndedAnswers[q.ID]
			if !ok {
				continue
			}
			row := domain.OpenAnswer{QuestionID: q.ID, QuestionText: q.Text, Answer: answer}
			if grade, ok := sub.OpenAnswerGrades[q.ID]; ok {
				row.Grade = &grade
			}
			sheet.Answers = append(sheet.Answers, row)
		}
		sheets = append(sheets, sheet)
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no open-ended answers submitted", domain.ErrNotFound)
	}
	return sheets, nil
}
