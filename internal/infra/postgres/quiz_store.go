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

var _ app.QuizStore = (*QuizStore)(nil)

const quizColumns = `id, title, description, questions, reward_pool, passing_score, creator, is_active, created_at`

// QuizStore keeps quizzes in Postgres; questions are stored as JSONB.
type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

func (s *QuizStore) Put(ctx context.Context, quiz domain.Quiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO quizzes (`+quizColumns+`)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			questions = EXCLUDED.questions,
			reward_pool = EXCLUDED.reward_pool,
			passing_score = EXCLUDED.passing_score,
			creator = EXCLUDED.creator,
			is_active = EXCLUDED.is_active`,
		quiz.ID, quiz.Title, quiz.Description, string(questions), quiz.RewardPool,
		quiz.PassingScore, quiz.Creator, quiz.Active, quiz.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("store quiz: %w", err)
	}
	return nil
}

func (s *QuizStore) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, quizID)
	quiz, err := scanQuiz(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	return quiz, nil
}

func (s *QuizStore) List(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+quizColumns+` FROM quizzes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []domain.Quiz{}
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

func (s *QuizStore) SetActive(ctx context.Context, quizID string, active bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE quizzes SET is_active = $2 WHERE id = $1`, quizID, active)
	if err != nil {
		return fmt.Errorf("set quiz active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *QuizStore) IsActive(ctx context.Context, quizID string) (bool, error) {
	var active bool
	err := s.pool.QueryRow(ctx, `SELECT is_active FROM quizzes WHERE id = $1`, quizID).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, domain.ErrQuizNotFound
	}
	if err != nil {
		return false, fmt.Errorf("load quiz status: %w", err)
	}
	return active, nil
}

func scanQuiz(row pgx.Row) (domain.Quiz, error) {
	var (
		quiz      domain.Quiz
		questions []byte
	)
	err := row.Scan(&quiz.ID, &quiz.Title, &quiz.Description, &questions, &quiz.RewardPool,
		&quiz.PassingScore, &quiz.Creator, &quiz.Active, &quiz.CreatedAt)
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := json.Unmarshal(questions, &quiz.Questions); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	return quiz, nil
}
