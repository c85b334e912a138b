package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-platform/internal/domain"
)

const (
	passedMessage = "Congratulations! You passed!"
	failedMessage = "You did not pass this quiz"
)

// QuizService contains the quiz lifecycle use cases: create, play once, score, reward.
type QuizService struct {
	quizzes  QuizStore
	attempts ParticipationStore
	stats    StatsStore
	feed     *StatsFeed
	log      *slog.Logger
	now      func() time.Time
	newID    func() (string, error)

	// serializes the read-flip-write of ToggleActive
	toggleMu sync.Mutex
	// keeps snapshots reaching the feed in the order they were taken
	publishMu sync.Mutex
}

// Option customizes a QuizService.
type Option func(*QuizService)

// WithLogger sets the structured logger used for lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(s *QuizService) { s.log = log }
}

// WithClock is mostly useful in tests for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *QuizService) { s.now = now }
}

// WithIDGenerator replaces the UUIDv7 quiz ID generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *QuizService) { s.newID = gen }
}

// WithStatsFeed publishes a fresh snapshot to feed after every counter change.
func WithStatsFeed(feed *StatsFeed) Option {
	return func(s *QuizService) { s.feed = feed }
}

func NewQuizService(quizzes QuizStore, attempts ParticipationStore, stats StatsStore, opts ...Option) *QuizService {
	s := &QuizService{
		quizzes:  quizzes,
		attempts: attempts,
		stats:    stats,
		log:      slog.Default(),
		now:      time.Now,
		newID:    newQuizID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newQuizID returns a time-ordered UUID so IDs sort by creation.
func newQuizID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// CreateQuiz validates and stores a new active quiz and returns its ID.
func (s *QuizService) CreateQuiz(ctx context.Context, in domain.NewQuiz) (string, error) {
	if err := validateNewQuiz(in); err != nil {
		return "", err
	}

	id, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate quiz id: %w", err)
	}

	questions := make([]domain.Question, len(in.Questions))
	for i, q := range in.Questions {
		questions[i] = domain.Question{
			Text:          q.Text,
			Options:       append([]string(nil), q.Options...),
			CorrectAnswer: q.CorrectAnswer,
		}
	}

	quiz := domain.Quiz{
		ID:           id,
		Title:        in.Title,
		Description:  in.Description,
		Questions:    questions,
		RewardPool:   in.RewardPool,
		PassingScore: in.PassingScore,
		Creator:      in.Creator,
		Active:       true,
		CreatedAt:    s.now(),
	}
	if err := s.quizzes.Put(ctx, quiz); err != nil {
		return "", err
	}

	s.recordStat(ctx, "quiz created", s.stats.QuizCreated(ctx))
	s.log.Info("quiz created", "quiz_id", id, "questions", len(questions), "creator", in.Creator)
	return id, nil
}

func validateNewQuiz(in domain.NewQuiz) error {
	if strings.TrimSpace(in.Title) == "" {
		return domain.InvalidInputf("title is required")
	}
	if len(in.Questions) == 0 {
		return domain.InvalidInputf("at least one question is required")
	}
	if in.PassingScore < 0 {
		return domain.InvalidInputf("passing score must not be negative")
	}
	if in.PassingScore > len(in.Questions) {
		return domain.InvalidInputf("passing score exceeds question count")
	}
	if !finite(in.RewardPool) {
		return domain.InvalidInputf("reward pool must be a finite number")
	}
	if in.RewardPool < 0 {
		return domain.InvalidInputf("reward pool must not be negative")
	}
	for i, q := range in.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return domain.InvalidInputf("question %d: text is required", i+1)
		}
		if len(q.Options) < 2 {
			return domain.InvalidInputf("question %d: at least two options are required", i+1)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return domain.InvalidInputf("question %d: correct answer out of range", i+1)
		}
	}
	return nil
}

// GetQuiz returns the public view of a quiz.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.QuizView, error) {
	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return domain.QuizView{}, err
	}
	return quiz.PublicView(), nil
}

// ListQuizzes returns the public view of every quiz.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]domain.QuizView, error) {
	quizzes, err := s.quizzes.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]domain.QuizView, 0, len(quizzes))
	for _, quiz := range quizzes {
		views = append(views, quiz.PublicView())
	}
	return views, nil
}

// PlayQuiz scores a participant's single attempt at a quiz and records it.
func (s *QuizService) PlayQuiz(ctx context.Context, quizID, participant string, answers []int) (domain.ScoreResult, error) {
	if strings.TrimSpace(participant) == "" {
		return domain.ScoreResult{}, domain.InvalidInputf("participant is required")
	}

	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return domain.ScoreResult{}, err
	}
	if !quiz.Active {
		return domain.ScoreResult{}, domain.ErrQuizInactive
	}
	if len(answers) != len(quiz.Questions) {
		return domain.ScoreResult{}, domain.ErrAnswerCountMismatch
	}

	score := quiz.Score(answers)
	_, err = s.attempts.TryCreate(ctx, domain.Attempt{
		Participant: participant,
		QuizID:      quizID,
		Score:       score,
		Answers:     append([]int(nil), answers...),
		SubmittedAt: s.now(),
	})
	if err != nil {
		return domain.ScoreResult{}, err
	}

	s.recordStat(ctx, "attempt recorded", s.stats.AttemptRecorded(ctx, score))

	passed := quiz.Passed(score)
	message := failedMessage
	if passed {
		message = passedMessage
	}
	s.log.Info("quiz played", "quiz_id", quizID, "participant", participant, "score", score, "passed", passed)
	return domain.ScoreResult{
		Score:          score,
		TotalQuestions: len(quiz.Questions),
		Passed:         passed,
		RewardEligible: passed,
		Message:        message,
	}, nil
}

// GetAttempt returns the participant's attempt, or an empty attempt when none was recorded.
func (s *QuizService) GetAttempt(ctx context.Context, participant, quizID string) (domain.Attempt, error) {
	attempt, ok, err := s.attempts.Get(ctx, participant, quizID)
	if err != nil {
		return domain.Attempt{}, err
	}
	if !ok {
		return domain.EmptyAttempt(participant, quizID), nil
	}
	return attempt, nil
}

// ToggleActive flips the quiz's active flag and returns the new state.
func (s *QuizService) ToggleActive(ctx context.Context, quizID string) (bool, error) {
	s.toggleMu.Lock()
	defer s.toggleMu.Unlock()

	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return false, err
	}
	active := !quiz.Active
	if err := s.quizzes.SetActive(ctx, quizID, active); err != nil {
		return false, err
	}
	s.log.Info("quiz status toggled", "quiz_id", quizID, "active", active)
	return active, nil
}

// DistributeReward marks a passing attempt as rewarded exactly once.
// The amount is not checked against the quiz reward pool.
func (s *QuizService) DistributeReward(ctx context.Context, participant, quizID string, amount float64) (domain.RewardConfirmation, error) {
	if !finite(amount) {
		return domain.RewardConfirmation{}, domain.InvalidInputf("reward amount must be a finite number")
	}
	if amount < 0 {
		return domain.RewardConfirmation{}, domain.InvalidInputf("reward amount must not be negative")
	}

	attempt, ok, err := s.attempts.Get(ctx, participant, quizID)
	if err != nil {
		return domain.RewardConfirmation{}, err
	}
	if !ok {
		return domain.RewardConfirmation{}, domain.ErrAttemptNotFound
	}
	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return domain.RewardConfirmation{}, err
	}

	if attempt.Rewarded {
		return domain.RewardConfirmation{}, domain.ErrAlreadyRewarded
	}
	if !quiz.Passed(attempt.Score) {
		return domain.RewardConfirmation{}, domain.ErrRewardNotPassed
	}
	if err := s.attempts.MarkRewarded(ctx, participant, quizID); err != nil {
		return domain.RewardConfirmation{}, err
	}

	s.recordStat(ctx, "reward distributed", s.stats.RewardDistributed(ctx, amount))
	s.log.Info("reward distributed", "quiz_id", quizID, "participant", participant, "amount", amount)
	return domain.RewardConfirmation{
		Participant: participant,
		QuizID:      quizID,
		Amount:      amount,
	}, nil
}

// Stats returns the current counter snapshot.
func (s *QuizService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.stats.Snapshot(ctx)
}

// recordStat runs after the triggering mutation has committed, so a failing
// counter update is logged rather than failing the request.
func (s *QuizService) recordStat(ctx context.Context, event string, err error) {
	if err != nil {
		s.log.Error("stats update failed", "event", event, "error", err)
		return
	}
	if s.feed == nil {
		return
	}
	// counters only grow, so snapshots taken in order are published in order
	s.publishMu.Lock()
	defer s.publishMu.Unlock()
	snapshot, err := s.stats.Snapshot(ctx)
	if err != nil {
		s.log.Error("stats snapshot failed", "event", event, "error", err)
		return
	}
	s.feed.Publish(snapshot)
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// IsClientError reports whether err is one of the lifecycle's expected rejections.
func IsClientError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput,
		domain.ErrQuizNotFound,
		domain.ErrAttemptNotFound,
		domain.ErrQuizInactive,
		domain.ErrAnswerCountMismatch,
		domain.ErrAlreadyPlayed,
		domain.ErrRewardRejected,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
