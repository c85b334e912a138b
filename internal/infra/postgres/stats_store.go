package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
)

var _ app.StatsStore = (*StatsStore)(nil)

// StatsStore keeps platform counters in the single-row quiz_stats table.
type StatsStore struct {
	pool *pgxpool.Pool
}

func NewStatsStore(pool *pgxpool.Pool) *StatsStore {
	return &StatsStore{pool: pool}
}

func (s *StatsStore) QuizCreated(ctx context.Context) error {
	return s.update(ctx, `UPDATE quiz_stats SET total_quizzes = total_quizzes + 1 WHERE id = 1`)
}

func (s *StatsStore) AttemptRecorded(ctx context.Context, score int) error {
	return s.update(ctx, `
		UPDATE quiz_stats SET
			total_participants = total_participants + 1,
			highest_score = GREATEST(highest_score, $1)
		WHERE id = 1`, score)
}

func (s *StatsStore) RewardDistributed(ctx context.Context, amount float64) error {
	return s.update(ctx, `UPDATE quiz_stats SET total_rewards_distributed = total_rewards_distributed + $1 WHERE id = 1`, amount)
}

func (s *StatsStore) Snapshot(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	err := s.pool.QueryRow(ctx, `
		SELECT total_participants, total_rewards_distributed, highest_score, total_quizzes
		FROM quiz_stats WHERE id = 1`,
	).Scan(&stats.TotalParticipants, &stats.TotalRewardsDistributed, &stats.HighestScore, &stats.TotalQuizzes)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Stats{}, nil
	}
	if err != nil {
		return domain.Stats{}, fmt.Errorf("load stats: %w", err)
	}
	return stats, nil
}

func (s *StatsStore) update(ctx context.Context, query string, args ...interface{}) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stats: quiz_stats row missing, run migrations")
	}
	return nil
}
