package app

import (
	"context"

	"classroom-quiz-service/internal/domain"
)

// UserRepository persists signed-in users.
type UserRepository interface {
	// FindByName matches case-insensitively; domain.ErrNotFound when absent.
	FindByName(ctx context.Context, firstName, lastName string) (domain.User, error)
	FindByToken(ctx context.Context, token string) (domain.User, error)
	// Register inserts the user if no one with the same name exists and returns
	// the stored record, which may be an earlier one. The token index is
	// rewritten on every call.
	Register(ctx context.Context, user domain.User) (domain.User, error)
}

// TeacherRoster is read-only reference data provisioned out of band.
type TeacherRoster interface {
	ListTeachers(ctx context.Context) ([]domain.Teacher, error)
}

// SessionRepository keeps the session history and the current-session pointer.
type SessionRepository interface {
	// Start appends the session to the history and makes it current.
	Start(ctx context.Context, session domain.Session) error
	// Current returns nil when no session has been started.
	Current(ctx context.Context) (*domain.Session, error)
	History(ctx context.Context) ([]domain.Session, error)
}

// SubmissionRepository stores one submission per student token.
type SubmissionRepository interface {
	// Create fails with domain.ErrDuplicateSubmission if the token already submitted.
	Create(ctx context.Context, submission domain.Submission) error
	Get(ctx context.Context, token string) (domain.Submission, error)
	List(ctx context.Context) ([]domain.Submission, error)
	// Update applies fn as an atomic read-modify-write. fn may run more than once.
	Update(ctx context.Context, token string, fn func(*domain.Submission) error) (domain.Submission, error)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// Repositories bundles the stores the service depends on.
type Repositories struct {
	Users       UserRepository
	Teachers    TeacherRoster
	Sessions    SessionRepository
	Submissions SubmissionRepository
	Quizzes     QuizRepository
}
