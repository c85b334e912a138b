package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
)

var _ app.ParticipationStore = (*ParticipationStore)(nil)

// ParticipationStore keeps one attempt per participant and quiz in Redis.
// Attempts are stored as:  HSETNX quiz:attempts:{quizID} {participant} {json}
// Reward flags are stored: HSETNX quiz:rewarded:{quizID} {participant} 1
// HSETNX makes both the first insert and the reward flip atomic across instances.
type ParticipationStore struct {
	client *redis.Client
}

func NewParticipationStore(client *redis.Client) *ParticipationStore {
	return &ParticipationStore{client: client}
}

func (s *ParticipationStore) TryCreate(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	attempt.Rewarded = false
	data, err := json.Marshal(attempt)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("marshal attempt: %w", err)
	}
	created, err := s.client.HSetNX(ctx, attemptsKey(attempt.QuizID), attempt.Participant, data).Result()
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("store attempt: %w", err)
	}
	if !created {
		return domain.Attempt{}, domain.ErrAlreadyPlayed
	}
	return attempt, nil
}

func (s *ParticipationStore) Get(ctx context.Context, participant, quizID string) (domain.Attempt, bool, error) {
	data, err := s.client.HGet(ctx, attemptsKey(quizID), participant).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Attempt{}, false, nil
	}
	if err != nil {
		return domain.Attempt{}, false, fmt.Errorf("load attempt: %w", err)
	}
	var attempt domain.Attempt
	if err := json.Unmarshal(data, &attempt); err != nil {
		return domain.Attempt{}, false, fmt.Errorf("unmarshal attempt: %w", err)
	}

	rewarded, err := s.client.HExists(ctx, rewardedKey(quizID), participant).Result()
	if err != nil {
		return domain.Attempt{}, false, fmt.Errorf("load reward flag: %w", err)
	}
	attempt.Rewarded = rewarded
	return attempt, true, nil
}

func (s *ParticipationStore) MarkRewarded(ctx context.Context, participant, quizID string) error {
	exists, err := s.client.HExists(ctx, attemptsKey(quizID), participant).Result()
	if err != nil {
		return fmt.Errorf("check attempt: %w", err)
	}
	if !exists {
		return domain.ErrAttemptNotFound
	}
	flipped, err := s.client.HSetNX(ctx, rewardedKey(quizID), participant, 1).Result()
	if err != nil {
		return fmt.Errorf("mark rewarded: %w", err)
	}
	if !flipped {
		return domain.ErrAlreadyRewarded
	}
	return nil
}
