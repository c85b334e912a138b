package memory

import (
	"context"
	"sync"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
)

var _ app.ParticipationStore = (*ParticipationStore)(nil)

type attemptKey struct {
	participant string
	quizID      string
}

// ParticipationStore is an in-memory implementation of app.ParticipationStore.
type ParticipationStore struct {
	mu       sync.RWMutex
	attempts map[attemptKey]domain.Attempt
}

func NewParticipationStore() *ParticipationStore {
	return &ParticipationStore{attempts: make(map[attemptKey]domain.Attempt)}
}

func (s *ParticipationStore) TryCreate(_ context.Context, attempt domain.Attempt) (domain.Attempt, error) {
	key := attemptKey{participant: attempt.Participant, quizID: attempt.QuizID}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attempts[key]; ok {
		return domain.Attempt{}, domain.ErrAlreadyPlayed
	}
	attempt.Rewarded = false
	s.attempts[key] = attempt
	return attempt, nil
}

func (s *ParticipationStore) Get(_ context.Context, participant, quizID string) (domain.Attempt, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[attemptKey{participant: participant, quizID: quizID}]
	return attempt, ok, nil
}

func (s *ParticipationStore) MarkRewarded(_ context.Context, participant, quizID string) error {
	key := attemptKey{participant: participant, quizID: quizID}

	s.mu.Lock()
	defer s.mu.Unlock()
	attempt, ok := s.attempts[key]
	if !ok {
		return domain.ErrAttemptNotFound
	}
	if attempt.Rewarded {
		return domain.ErrAlreadyRewarded
	}
	attempt.Rewarded = true
	s.attempts[key] = attempt
	return nil
}
