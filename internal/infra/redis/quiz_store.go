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

var _ app.QuizStore = (*QuizStore)(nil)

const maxTxRetries = 5

// QuizStore keeps quizzes in Redis.
// Quizzes are stored as: HSET quiz:quizzes {quizID} {json}
// Insertion order is:     RPUSH quiz:order {quizID}
type QuizStore struct {
	client *redis.Client
}

func NewQuizStore(client *redis.Client) *QuizStore {
	return &QuizStore{client: client}
}

// putQuiz writes the quiz body and appends a new id to the order list in one step,
// so a stored quiz is always listed.
var putQuiz = redis.NewScript(`
if redis.call('HSETNX', KEYS[1], ARGV[1], ARGV[2]) == 1 then
	redis.call('RPUSH', KEYS[2], ARGV[1])
	return 1
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return 0
`)

func (s *QuizStore) Put(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	if err := putQuiz.Run(ctx, s.client, []string{quizzesKey, orderKey}, quiz.ID, string(data)).Err(); err != nil {
		return fmt.Errorf("store quiz: %w", err)
	}
	return nil
}

func (s *QuizStore) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	return getQuiz(ctx, s.client, quizID)
}

func (s *QuizStore) List(ctx context.Context) ([]domain.Quiz, error) {
	ids, err := s.client.LRange(ctx, orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list quiz ids: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Quiz{}, nil
	}
	raw, err := s.client.HMGet(ctx, quizzesKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("load quizzes: %w", err)
	}
	quizzes := make([]domain.Quiz, 0, len(raw))
	for i, value := range raw {
		data, ok := value.(string)
		if !ok {
			// index entry without a body; skip rather than fail the whole listing
			continue
		}
		var quiz domain.Quiz
		if err := json.Unmarshal([]byte(data), &quiz); err != nil {
			return nil, fmt.Errorf("unmarshal quiz %s: %w", ids[i], err)
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

func (s *QuizStore) IsActive(ctx context.Context, quizID string) (bool, error) {
	quiz, err := getQuiz(ctx, s.client, quizID)
	if err != nil {
		return false, err
	}
	return quiz.Active, nil
}

func (s *QuizStore) SetActive(ctx context.Context, quizID string, active bool) error {
	txf := func(tx *redis.Tx) error {
		quiz, err := getQuiz(ctx, tx, quizID)
		if err != nil {
			return err
		}
		quiz.Active = active
		data, err := json.Marshal(quiz)
		if err != nil {
			return fmt.Errorf("marshal quiz: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, quizzesKey, quizID, data)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, quizzesKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("set quiz active: %w", redis.TxFailedErr)
}

// hashGetter is satisfied by both *redis.Client and *redis.Tx.
type hashGetter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

func getQuiz(ctx context.Context, c hashGetter, quizID string) (domain.Quiz, error) {
	data, err := c.HGet(ctx, quizzesKey, quizID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}
