package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
)

var _ app.ParticipationStore = (*ParticipationStore)(nil)

// ParticipationStore keeps attempts in Postgres keyed by (participant, quiz_id).
type ParticipationStore struct {
	pool *pgxpool.Pool
}

func NewParticipationStore(pool *pgxpool.Pool) *ParticipationStore {
	return &ParticipationStore{pool: pool}
}

func (s *ParticipationStore) TryCreate(ctx context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("marshal answers: %w", err)
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO attempts (participant, quiz_id, score, answers, submitted_at, rewarded)
		VALUES ($1, $2, $3, $4::jsonb, $5, FALSE)
		ON CONFLICT (participant, quiz_id) DO NOTHING`,
		attempt.Participant, attempt.QuizID, attempt.Score, string(answers), attempt.SubmittedAt,
	)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("store attempt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Attempt{}, domain.ErrAlreadyPlayed
	}
	attempt.Rewarded = false
	return attempt, nil
}

func (s *ParticipationStore) Get(ctx context.Context, participant, quizID string) (domain.Attempt, bool, error) {
	var (
		attempt = domain.Attempt{Participant: participant, QuizID: quizID}
		answers []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT score, answers, submitted_at, rewarded
		FROM attempts WHERE participant = $1 AND quiz_id = $2`,
		participant, quizID,
	).Scan(&attempt.Score, &answers, &attempt.SubmittedAt, &attempt.Rewarded)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Attempt{}, false, nil
	}
	if err != nil {
		return domain.Attempt{}, false, fmt.Errorf("load attempt: %w", err)
	}
	if err := json.Unmarshal(answers, &attempt.Answers); err != nil {
		return domain.Attempt{}, false, fmt.Errorf("unmarshal answers: %w", err)
	}
	return attempt, true, nil
}

func (s *ParticipationStore) MarkRewarded(ctx context.Context, participant, quizID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE attempts SET rewarded = TRUE
		WHERE participant = $1 AND quiz_id = $2 AND NOT rewarded`,
		participant, quizID,
	)
	if err != nil {
		return fmt.Errorf("mark rewarded: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	_, ok, err := s.Get(ctx, participant, quizID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAttemptNotFound
	}
	return domain.ErrAlreadyRewarded
}
