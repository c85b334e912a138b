package app

import (
	"context"

	"quiz-platform/internal/domain"
)

// QuizStore abstracts where quizzes live (in-memory, Redis, Postgres).
type QuizStore interface {
	Put(ctx context.Context, quiz domain.Quiz) error
	// Get returns domain.ErrQuizNotFound for unknown IDs.
	Get(ctx context.Context, quizID string) (domain.Quiz, error)
	// List returns every quiz in insertion order.
	List(ctx context.Context) ([]domain.Quiz, error)
	SetActive(ctx context.Context, quizID string, active bool) error
	// IsActive reads only the mutable active flag; caches use it to stay current.
	IsActive(ctx context.Context, quizID string) (bool, error)
}

// ParticipationStore records at most one attempt per (participant, quiz) pair.
type ParticipationStore interface {
	// TryCreate inserts the attempt only if none exists for the pair and
	// returns domain.ErrAlreadyPlayed otherwise. The check and insert are atomic.
	TryCreate(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error)
	Get(ctx context.Context, participant, quizID string) (domain.Attempt, bool, error)
	// MarkRewarded flips the rewarded flag once. It returns domain.ErrAttemptNotFound
	// or domain.ErrAlreadyRewarded when the flip cannot happen.
	MarkRewarded(ctx context.Context, participant, quizID string) error
}

// StatsStore keeps the running platform counters.
type StatsStore interface {
	QuizCreated(ctx context.Context) error
	AttemptRecorded(ctx context.Context, score int) error
	RewardDistributed(ctx context.Context, amount float64) error
	Snapshot(ctx context.Context) (domain.Stats, error)
}
