package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when quiz or attempt data fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrQuizNotFound indicates the quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrAttemptNotFound indicates no attempt was recorded for the participant and quiz.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrQuizInactive is returned when playing a quiz that no longer accepts attempts.
	ErrQuizInactive = errors.New("quiz is not active")
	// ErrAnswerCountMismatch is returned when the answers do not line up with the questions.
	ErrAnswerCountMismatch = errors.New("number of answers must match questions")
	// ErrAlreadyPlayed is returned when the participant already has an attempt for the quiz.
	ErrAlreadyPlayed = errors.New("quiz already played")
	// ErrRewardRejected covers every reason a reward cannot be distributed.
	ErrRewardRejected = errors.New("cannot distribute reward")
)

var (
	// ErrRewardNotPassed rejects rewards for attempts below the passing score.
	ErrRewardNotPassed = fmt.Errorf("%w: attempt did not pass", ErrRewardRejected)
	// ErrAlreadyRewarded rejects a second distribution for the same attempt.
	ErrAlreadyRewarded = fmt.Errorf("%w: attempt already rewarded", ErrRewardRejected)
)

// InvalidInputf wraps ErrInvalidInput with a human readable reason.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
