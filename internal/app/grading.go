package app

import (
	"context"
	"fmt"
	"strings"

	"classroom-quiz-service/internal/domain"
)

// MarkRequest identifies one open-ended answer. QuestionID wins over QuestionText.
type MarkRequest struct {
	StudentName  string
	QuestionID   string
	QuestionText string
	IsCorrect    bool
}

// scoreChange is the delta for moving a grade from previous (nil when ungraded) to next.
func scoreChange(previous *bool, next bool) int {
	switch {
	case previous == nil:
		if next {
			return 1
		}
		return 0
	case *previous == next:
		return 0
	case next:
		return 1
	default:
		return -1
	}
}

// MarkOpenAnswer records a teacher's verdict on an open-ended answer and adjusts the score.
// Repeating the same verdict leaves the score unchanged.
func (s *QuizService) MarkOpenAnswer(ctx context.Context, teacherToken string, req MarkRequest) (domain.MarkResult, error) {
	if _, err := s.requireTeacher(ctx, teacherToken); err != nil {
		return domain.MarkResult{}, err
	}
	studentName := strings.TrimSpace(req.StudentName)
	if studentName == "" || (req.QuestionID == "" && strings.TrimSpace(req.QuestionText) == "") {
		return domain.MarkResult{}, fmt.Errorf("%w: studentName and a question are required", domain.ErrValidation)
	}

	quiz, err := s.quizzes.GetQuiz(ctx, s.quizID)
	if err != nil {
		return domain.MarkResult{}, err
	}
	question, err := findOpenQuestion(quiz, req.QuestionID, req.QuestionText)
	if err != nil {
		return domain.MarkResult{}, err
	}

	submission, err := s.findSubmissionByStudent(ctx, studentName)
	if err != nil {
		return domain.MarkResult{}, err
	}

	var result domain.MarkResult
	_, err = s.submissions.Update(ctx, submission.Token, func(sub *domain.Submission) error {
		if sub.OpenAnswerGrades == nil {
			sub.OpenAnswerGrades = make(map[string]bool)
		}
		var previous *bool
		if grade, ok := sub.OpenAnswerGrades[question.ID]; ok {
			previous = &grade
		}
		change := scoreChange(previous, req.IsCorrect)
		sub.OpenAnswerGrades[question.ID] = req.IsCorrect
		sub.Score += change
		if sub.Score < 0 {
			sub.Score = 0
		}
		result = domain.MarkResult{
			UpdatedScore:  sub.Score,
			PreviousGrade: previous,
			NewGrade:      req.IsCorrect,
			ScoreChange:   change,
		}
		return nil
	})
	if err != nil {
		return domain.MarkResult{}, err
	}
	return result, nil
}

func findOpenQuestion(quiz domain.Quiz, id, text string) (domain.Question, error) {
	if id != "" {
		q, ok := quiz.Question(id)
		if !ok || q.Type != domain.QuestionOpenEnded {
			return domain.Question{}, fmt.Errorf("%w: no open-ended question %q", domain.ErrNotFound, id)
		}
		return q, nil
	}

	text = strings.TrimSpace(text)
	var matches []domain.Question
	for _, q := range quiz.Questions {
		if q.Type == domain.QuestionOpenEnded && strings.TrimSpace(q.Text) == text {
			matches = append(matches, q)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Question{}, fmt.Errorf("%w: no open-ended question with that text", domain.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return domain.Question{}, fmt.Errorf("%w: question text matches %d questions, use questionId", domain.ErrValidation, len(matches))
	}
}

func (s *QuizService) findSubmissionByStudent(ctx context.Context, studentName string) (domain.Submission, error) {
	submissions, err := s.submissions.List(ctx)
	if err != nil {
		return domain.Submission{}, err
	}
	for _, sub := range submissions {
		if strings.EqualFold(strings.TrimSpace(sub.StudentName), studentName) {
			return sub, nil
		}
	}
	return domain.Submission{}, fmt.Errorf("%w: no submission for %q", domain.ErrNotFound, studentName)
}
