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

var _ app.SubmissionRepository = (*Submissions)(nil)

// Submissions stores one submission per student token.
type Submissions struct {
	store kv.Store
}

func NewSubmissions(store kv.Store) *Submissions {
	return &Submissions{store: store}
}

func (s *Submissions) Create(ctx context.Context, submission domain.Submission) error {
	value, err := json.Marshal(submission)
	if err != nil {
		return err
	}
	_, err = s.store.Insert(ctx, collectionSubmissions, submission.Token, value)
	if errors.Is(err, kv.ErrExists) {
		return domain.ErrDuplicateSubmission
	}
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (s *Submissions) Get(ctx context.Context, token string) (domain.Submission, error) {
	entry, err := s.store.Get(ctx, collectionSubmissions, token)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.Submission{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Submission{}, fmt.Errorf("read submission: %w", err)
	}
	return decode[domain.Submission](entry)
}

// List returns submissions in submission order.
func (s *Submissions) List(ctx context.Context) ([]domain.Submission, error) {
	entries, err := listCollection(ctx, s.store, collectionSubmissions)
	if err != nil {
		return nil, err
	}
	submissions := make([]domain.Submission, 0, len(entries))
	for _, entry := range entries {
		submission, err := decode[domain.Submission](entry)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, submission)
	}
	sort.SliceStable(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.Before(submissions[j].SubmittedAt)
	})
	return submissions, nil
}

func (s *Submissions) Update(ctx context.Context, token string, fn func(*domain.Submission) error) (domain.Submission, error) {
	for attempt := 0; attempt < maxSwapAttempts; attempt++ {
		entry, err := s.store.Get(ctx, collectionSubmissions, token)
		if errors.Is(err, kv.ErrNotFound) {
			return domain.Submission{}, domain.ErrNotFound
		}
		if err != nil {
			return domain.Submission{}, fmt.Errorf("read submission: %w", err)
		}
		submission, err := decode[domain.Submission](entry)
		if err != nil {
			return domain.Submission{}, err
		}
		if err := fn(&submission); err != nil {
			return domain.Submission{}, err
		}
		value, err := json.Marshal(submission)
		if err != nil {
			return domain.Submission{}, err
		}
		_, err = s.store.Swap(ctx, collectionSubmissions, token, entry.Version, value)
		if errors.Is(err, kv.ErrConflict) {
			continue
		}
		if err != nil {
			return domain.Submission{}, fmt.Errorf("update submission: %w", err)
		}
		return submission, nil
	}
	return domain.Submission{}, domain.ErrConflict
}
