package redis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"classroom-quiz-service/internal/domain"
	"classroom-quiz-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{"quiz-1": sampleQuiz()}),
	}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute)

	quiz, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if len(quiz.Questions) != 2 || quiz.Questions[0].CorrectAnswer != "4" {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
	if !mr.Exists("quiz:quiz-1:content") {
		t.Fatalf("expected cached content key")
	}
	if ttl := mr.TTL("quiz:quiz-1:content"); ttl < time.Minute {
		t.Fatalf("expected ttl of at least a minute, got %v", ttl)
	}

	// A second repository (another replica) reads the shared cache.
	other := NewQuizRepository(newClient(mr), loader, time.Minute)
	cached, err := other.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz from replica: %v", err)
	}
	if got := loader.calls.Load(); got != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", got)
	}
	if cached.Questions[1].Type != domain.QuestionOpenEnded {
		t.Fatalf("cached quiz lost question type: %+v", cached.Questions[1])
	}

	if err := repo.Invalidate(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	if got := loader.calls.Load(); got != 2 {
		t.Fatalf("expected reload after invalidate, got %d", got)
	}
}

func TestQuizRepositoryExpiresWithTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{"quiz-1": sampleQuiz()}),
	}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute)

	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	mr.FastForward(2 * time.Minute)
	_, _ = repo.GetQuiz(context.Background(), "quiz-1")
	if got := loader.calls.Load(); got != 2 {
		t.Fatalf("expected reload after expiry, got %d", got)
	}
}

type countingLoader struct {
	memory.QuizLoader
	calls atomic.Int32
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls.Add(1)
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID: "quiz-1",
		Questions: []domain.Question{
			{ID: "q1", Text: "What is 2 + 2?", Type: domain.QuestionMultipleChoice, Choices: []string{"3", "4"}, CorrectAnswer: "4"},
			{ID: "q2", Text: "Describe a loop", Type: domain.QuestionOpenEnded},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
