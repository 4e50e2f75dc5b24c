package app

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSessionDuration applies when a session is started without an end time.
const DefaultSessionDuration = time.Hour

// QuizService contains the core quiz use cases.
type QuizService struct {
	users       UserRepository
	teachers    TeacherRoster
	sessions    SessionRepository
	submissions SubmissionRepository
	quizzes     QuizRepository

	quizID          string
	defaultDuration time.Duration
	now             func() time.Time
	newToken        func() string
	newSessionID    func() string
	hub             *StatusHub
}

// Option customises a QuizService.
type Option func(*QuizService)

// WithClock replaces time.Now, mainly for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithTokenGenerator replaces the random sign-in token generator.
func WithTokenGenerator(gen func() string) Option {
	return func(s *QuizService) { s.newToken = gen }
}

// WithSessionIDGenerator replaces the random session id generator.
func WithSessionIDGenerator(gen func() string) Option {
	return func(s *QuizService) { s.newSessionID = gen }
}

// WithDefaultDuration sets the session length used when no end time is given.
// Zero makes the end time mandatory.
func WithDefaultDuration(d time.Duration) Option {
	return func(s *QuizService) { s.defaultDuration = d }
}

// WithStatusHub shares a hub between the service and other publishers.
func WithStatusHub(hub *StatusHub) Option {
	return func(s *QuizService) { s.hub = hub }
}

func NewQuizService(repos Repositories, quizID string, opts ...Option) *QuizService {
	s := &QuizService{
		users:           repos.Users,
		teachers:        repos.Teachers,
		sessions:        repos.Sessions,
		submissions:     repos.Submissions,
		quizzes:         repos.Quizzes,
		quizID:          quizID,
		defaultDuration: DefaultSessionDuration,
		now:             time.Now,
		newToken:        uuid.NewString,
		newSessionID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hub == nil {
		s.hub = NewStatusHub()
	}
	return s
}

func (s *QuizService) nowMillis() int64 {
	return s.now().UnixMilli()
}
