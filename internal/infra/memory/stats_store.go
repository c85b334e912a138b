package memory

import (
	"context"
	"sync"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
)

var _ app.StatsStore = (*StatsStore)(nil)

// StatsStore keeps platform counters in process memory.
type StatsStore struct {
	mu    sync.Mutex
	stats domain.Stats
}

func NewStatsStore() *StatsStore {
	return &StatsStore{}
}

func (s *StatsStore) QuizCreated(_ context.Context) error {
	s.mu.Lock()
	s.stats.TotalQuizzes++
	s.mu.Unlock()
	return nil
}

func (s *StatsStore) AttemptRecorded(_ context.Context, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.TotalParticipants++
	if score > s.stats.HighestScore {
		s.stats.HighestScore = score
	}
	return nil
}

func (s *StatsStore) RewardDistributed(_ context.Context, amount float64) error {
	s.mu.Lock()
	s.stats.TotalRewardsDistributed += amount
	s.mu.Unlock()
	return nil
}

func (s *StatsStore) Snapshot(_ context.Context) (domain.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats, nil
}
