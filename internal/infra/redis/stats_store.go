package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
)

var _ app.StatsStore = (*StatsStore)(nil)

const (
	fieldParticipants = "total_participants"
	fieldRewards      = "total_rewards_distributed"
	fieldHighestScore = "highest_score"
	fieldQuizzes      = "total_quizzes"
)

// recordAttempt bumps the participant count and raises the highest score in one round trip.
var recordAttempt = redis.NewScript(`
redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
local current = tonumber(redis.call('HGET', KEYS[1], ARGV[2]) or '0')
local score = tonumber(ARGV[3])
if score > current then
	redis.call('HSET', KEYS[1], ARGV[2], ARGV[3])
end
return 1
`)

// StatsStore keeps platform counters in a single Redis hash: quiz:stats.
type StatsStore struct {
	client *redis.Client
}

func NewStatsStore(client *redis.Client) *StatsStore {
	return &StatsStore{client: client}
}

func (s *StatsStore) QuizCreated(ctx context.Context) error {
	if err := s.client.HIncrBy(ctx, statsKey, fieldQuizzes, 1).Err(); err != nil {
		return fmt.Errorf("increment quizzes: %w", err)
	}
	return nil
}

func (s *StatsStore) AttemptRecorded(ctx context.Context, score int) error {
	err := recordAttempt.Run(ctx, s.client, []string{statsKey}, fieldParticipants, fieldHighestScore, score).Err()
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

func (s *StatsStore) RewardDistributed(ctx context.Context, amount float64) error {
	if err := s.client.HIncrByFloat(ctx, statsKey, fieldRewards, amount).Err(); err != nil {
		return fmt.Errorf("increment rewards: %w", err)
	}
	return nil
}

func (s *StatsStore) Snapshot(ctx context.Context) (domain.Stats, error) {
	values, err := s.client.HGetAll(ctx, statsKey).Result()
	if err != nil {
		return domain.Stats{}, fmt.Errorf("load stats: %w", err)
	}
	var stats domain.Stats
	if v, ok := values[fieldParticipants]; ok {
		stats.TotalParticipants, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := values[fieldRewards]; ok {
		stats.TotalRewardsDistributed, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := values[fieldHighestScore]; ok {
		stats.HighestScore, _ = strconv.Atoi(v)
	}
	if v, ok := values[fieldQuizzes]; ok {
		stats.TotalQuizzes, _ = strconv.ParseInt(v, 10, 64)
	}
	return stats, nil
}
