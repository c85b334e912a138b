package memory

import (
	"context"
	"sync"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
)

var _ app.QuizStore = (*QuizStore)(nil)

// QuizStore is an in-memory implementation of app.QuizStore that keeps insertion order.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.Quiz
	order   []string
}

func NewQuizStore() *QuizStore {
	return &QuizStore{quizzes: make(map[string]domain.Quiz)}
}

func (s *QuizStore) Put(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.ID]; !ok {
		s.order = append(s.order, quiz.ID)
	}
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *QuizStore) Get(_ context.Context, quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizStore) List(_ context.Context) ([]domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quizzes := make([]domain.Quiz, 0, len(s.order))
	for _, id := range s.order {
		quizzes = append(quizzes, s.quizzes[id])
	}
	return quizzes, nil
}

func (s *QuizStore) IsActive(_ context.Context, quizID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return false, domain.ErrQuizNotFound
	}
	return quiz.Active, nil
}

func (s *QuizStore) SetActive(_ context.Context, quizID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.ErrQuizNotFound
	}
	quiz.Active = active
	s.quizzes[quizID] = quiz
	return nil
}
