package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"classroom-quiz-service/internal/domain"
)

// StatusAt reports whether session is open at now (epoch ms). A nil session is closed.
func StatusAt(session *domain.Session, now int64) domain.SessionStatus {
	if session == nil {
		return domain.SessionStatus{}
	}
	status := domain.SessionStatus{StartTime: session.StartTime, EndTime: session.EndTime}
	if session.StartTime <= now && now <= session.EndTime {
		status.Open = true
		status.RemainingMs = session.EndTime - now
	}
	return status
}

// GateAt returns the remaining milliseconds when session is open at now,
// domain.ErrQuizNotStarted before it starts and domain.ErrQuizEnded after it ends.
func GateAt(session *domain.Session, now int64) (int64, error) {
	switch {
	case session == nil || now < session.StartTime:
		return 0, domain.ErrQuizNotStarted
	case now > session.EndTime:
		return 0, domain.ErrQuizEnded
	default:
		return session.EndTime - now, nil
	}
}

// StartSession opens a new session that supersedes the current one.
// A nil endTime falls back to the configured default duration.
func (s *QuizService) StartSession(ctx context.Context, token string, endTime *int64) (domain.Session, error) {
	teacher, err := s.requireTeacher(ctx, token)
	if err != nil {
		return domain.Session{}, err
	}

	start := s.nowMillis()
	var end int64
	switch {
	case endTime != nil:
		end = *endTime
	case s.defaultDuration > 0:
		end = start + s.defaultDuration.Milliseconds()
	default:
		return domain.Session{}, fmt.Errorf("%w: endTime is required", domain.ErrValidation)
	}
	if end <= start {
		return domain.Session{}, fmt.Errorf("%w: endTime must be after the start time", domain.ErrValidation)
	}

	session := domain.Session{
		ID:        s.newSessionID(),
		StartTime: start,
		EndTime:   end,
		StartedBy: teacher.FullName(),
	}
	if err := s.sessions.Start(ctx, session); err != nil {
		return domain.Session{}, err
	}
	s.hub.Publish(StatusAt(&session, start))
	return session, nil
}

// Status reports the current session status.
func (s *QuizService) Status(ctx context.Context) (domain.SessionStatus, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return domain.SessionStatus{}, err
	}
	return StatusAt(session, s.nowMillis()), nil
}

// Gate fails unless the current session is open.
func (s *QuizService) Gate(ctx context.Context) (int64, error) {
	_, remaining, err := s.gate(ctx)
	return remaining, err
}

func (s *QuizService) gate(ctx context.Context) (*domain.Session, int64, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, 0, err
	}
	remaining, err := GateAt(session, s.nowMillis())
	return session, remaining, err
}

// SessionHistory lists every session ever started, oldest first.
func (s *QuizService) SessionHistory(ctx context.Context, token string) ([]domain.Session, error) {
	if _, err := s.requireTeacher(ctx, token); err != nil {
		return nil, err
	}
	return s.sessions.History(ctx)
}

// Subscribe streams status updates, starting with the current status.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(ctx context.Context) (<-chan domain.SessionStatus, func(), error) {
	status, err := s.Status(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.subscribe(status)
	return ch, cancel, nil
}

// RefreshStatus recomputes the status and pushes it to subscribers.
func (s *QuizService) RefreshStatus(ctx context.Context) error {
	status, err := s.Status(ctx)
	if err != nil {
		return err
	}
	s.hub.Publish(status)
	return nil
}

// RunStatusTicker refreshes subscribers every interval until ctx is done.
func (s *QuizService) RunStatusTicker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.hub.hasSubscribers() {
				continue
			}
			if err := s.RefreshStatus(ctx); err != nil {
				slog.Warn("refresh session status", "error", err)
			}
		}
	}
}
