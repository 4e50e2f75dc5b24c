package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"classroom-quiz-service/internal/app"
	"classroom-quiz-service/internal/domain"
	"classroom-quiz-service/internal/infra/kv"
)

var _ app.SessionRepository = (*Sessions)(nil)

const currentPointerKey = "current"

// Sessions keeps an append-only session log plus a pointer to the current one.
type Sessions struct {
	store kv.Store
}

func NewSessions(store kv.Store) *Sessions {
	return &Sessions{store: store}
}

type sessionPointer struct {
	SessionID string `json:"sessionId"`
}

func (s *Sessions) Start(ctx context.Context, session domain.Session) error {
	value, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if _, err := s.store.Insert(ctx, collectionSessions, session.ID, value); err != nil {
		return fmt.Errorf("append session: %w", err)
	}

	pointer, err := json.Marshal(sessionPointer{SessionID: session.ID})
	if err != nil {
		return err
	}
	for attempt := 0; attempt < maxSwapAttempts; attempt++ {
		current, err := s.store.Get(ctx, collectionSessionPointer, currentPointerKey)
		switch {
		case errors.Is(err, kv.ErrNotFound):
			_, err = s.store.Insert(ctx, collectionSessionPointer, currentPointerKey, pointer)
			if errors.Is(err, kv.ErrExists) {
				continue
			}
		case err != nil:
			return fmt.Errorf("read session pointer: %w", err)
		default:
			_, err = s.store.Swap(ctx, collectionSessionPointer, currentPointerKey, current.Version, pointer)
			if errors.Is(err, kv.ErrConflict) {
				continue
			}
		}
		if err != nil {
			return fmt.Errorf("move session pointer: %w", err)
		}
		return nil
	}
	return domain.ErrConflict
}

func (s *Sessions) Current(ctx context.Context) (*domain.Session, error) {
	entry, err := s.store.Get(ctx, collectionSessionPointer, currentPointerKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session pointer: %w", err)
	}
	pointer, err := decode[sessionPointer](entry)
	if err != nil {
		return nil, err
	}

	entry, err = s.store.Get(ctx, collectionSessions, pointer.SessionID)
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", pointer.SessionID, err)
	}
	session, err := decode[domain.Session](entry)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Sessions) History(ctx context.Context) ([]domain.Session, error) {
	entries, err := listCollection(ctx, s.store, collectionSessions)
	if err != nil {
		return nil, err
	}
	sessions := make([]domain.Session, 0, len(entries))
	for _, entry := range entries {
		session, err := decode[domain.Session](entry)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartTime < sessions[j].StartTime
	})
	return sessions, nil
}
