package records

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"classroom-quiz-service/internal/domain"
	"classroom-quiz-service/internal/infra/kv"
	"classroom-quiz-service/internal/infra/memory"
)

func TestUsersRegisterIsInsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(memory.NewRecordStore())

	first, err := users.Register(ctx, domain.User{ID: "tok-1", FirstName: "Bob", LastName: "Smith", Role: domain.RoleStudent})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	second, err := users.Register(ctx, domain.User{ID: "tok-2", FirstName: "BOB", LastName: "smith", Role: domain.RoleTeacher})
	if err != nil {
		t.Fatalf("register again: %v", err)
	}
	if second.ID != first.ID || second.Role != domain.RoleStudent {
		t.Fatalf("expected first record to win, got %+v", second)
	}

	byToken, err := users.FindByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("find by token: %v", err)
	}
	if byToken.FirstName != "Bob" {
		t.Fatalf("unexpected user %+v", byToken)
	}
	if _, err := users.FindByToken(ctx, "tok-2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected losing token to be unknown, got %v", err)
	}
}

func TestUsersConcurrentRegisterConverges(t *testing.T) {
	ctx := context.Background()
	users := NewUsers(memory.NewRecordStore())

	const workers = 10
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := users.Register(ctx, domain.User{ID: string(rune('a' + i)), FirstName: "Ada", LastName: "Lovelace"})
			if err != nil {
				t.Errorf("register: %v", err)
				return
			}
			ids[i] = u.ID
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("expected all sign-ins to converge, got %v", ids)
		}
	}
}

func TestSessionsPointerFollowsLatestStart(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessions(memory.NewRecordStore())

	current, err := sessions.Current(ctx)
	if err != nil || current != nil {
		t.Fatalf("expected no current session, got %+v, %v", current, err)
	}

	if err := sessions.Start(ctx, domain.Session{ID: "s-2", StartTime: 2000, EndTime: 3000}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := sessions.Start(ctx, domain.Session{ID: "s-1", StartTime: 5000, EndTime: 9000}); err != nil {
		t.Fatalf("start again: %v", err)
	}

	current, err = sessions.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current == nil || current.ID != "s-1" {
		t.Fatalf("expected latest session current, got %+v", current)
	}

	history, err := sessions.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].ID != "s-2" || history[1].ID != "s-1" {
		t.Fatalf("expected history ordered by start time, got %+v", history)
	}
}

func TestSubmissionsCreateRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	subs := NewSubmissions(memory.NewRecordStore())

	if err := subs.Create(ctx, domain.Submission{Token: "t1", StudentName: "Bob Smith"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := subs.Create(ctx, domain.Submission{Token: "t1"}); !errors.Is(err, domain.ErrDuplicateSubmission) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestSubmissionsListOrderAndEmpty(t *testing.T) {
	ctx := context.Background()
	subs := NewSubmissions(memory.NewRecordStore())

	list, err := subs.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v, %v", list, err)
	}

	base := time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)
	_ = subs.Create(ctx, domain.Submission{Token: "a", StudentName: "Late", SubmittedAt: base.Add(time.Minute)})
	_ = subs.Create(ctx, domain.Submission{Token: "b", StudentName: "Early", SubmittedAt: base})

	list, err = subs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].StudentName != "Early" {
		t.Fatalf("expected submission order, got %+v", list)
	}
}

func TestSubmissionsUpdateSerialisesConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	subs := NewSubmissions(memory.NewRecordStore())
	if err := subs.Create(ctx, domain.Submission{Token: "t1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	const workers = 4
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := subs.Update(ctx, "t1", func(s *domain.Submission) error {
				s.Score++
				return nil
			})
			if err != nil && !errors.Is(err, domain.ErrConflict) {
				t.Errorf("update: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := subs.Get(ctx, "t1")
	if got.Score < 1 || got.Score > workers {
		t.Fatalf("unexpected score %d", got.Score)
	}
}

func TestSubmissionsUpdateGivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := context.Background()
	store := &conflictingStore{Store: memory.NewRecordStore()}
	subs := NewSubmissions(store)
	if err := subs.Create(ctx, domain.Submission{Token: "t1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	calls := 0
	_, err := subs.Update(ctx, "t1", func(s *domain.Submission) error {
		calls++
		return nil
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if calls != maxSwapAttempts {
		t.Fatalf("expected %d attempts, got %d", maxSwapAttempts, calls)
	}
}

func TestListPropagatesReadErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	subs := NewSubmissions(&brokenListStore{Store: memory.NewRecordStore(), err: boom})
	if _, err := subs.List(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected read error to propagate, got %v", err)
	}
}

type conflictingStore struct {
	kv.Store
}

func (s *conflictingStore) Swap(context.Context, string, string, int64, []byte) (kv.Entry, error) {
	return kv.Entry{}, kv.ErrConflict
}

type brokenListStore struct {
	kv.Store
	err error
}

func (s *brokenListStore) List(context.Context, string) ([]kv.Entry, error) {
	return nil, s.err
}
