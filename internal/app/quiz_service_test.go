package app_test

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
	"quiz-platform/internal/infra/memory"
)

func TestPlayAndRewardScenario(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	quizID, err := service.CreateQuiz(ctx, twoQuestionQuiz(1))
	require.NoError(t, err)

	// first answer correct, second wrong
	result, err := service.PlayQuiz(ctx, quizID, "0xabc", []int{1, 1})
	require.NoError(t, err)
	require.Equal(t, 1, result.Score)
	require.Equal(t, 2, result.TotalQuestions)
	require.True(t, result.Passed)
	require.True(t, result.RewardEligible)
	require.Equal(t, "Congratulations! You passed!", result.Message)

	_, err = service.PlayQuiz(ctx, quizID, "0xabc", []int{1, 0})
	require.ErrorIs(t, err, domain.ErrAlreadyPlayed)

	confirmation, err := service.DistributeReward(ctx, "0xabc", quizID, 50)
	require.NoError(t, err)
	require.Equal(t, domain.RewardConfirmation{Participant: "0xabc", QuizID: quizID, Amount: 50}, confirmation)

	stats, err := service.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 50.0, stats.TotalRewardsDistributed)

	_, err = service.DistributeReward(ctx, "0xabc", quizID, 50)
	require.ErrorIs(t, err, domain.ErrAlreadyRewarded)
	require.ErrorIs(t, err, domain.ErrRewardRejected)

	stats, err = service.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Stats{
		TotalParticipants:       1,
		TotalRewardsDistributed: 50,
		HighestScore:            1,
		TotalQuizzes:            1,
	}, stats)

	attempt, err := service.GetAttempt(ctx, "0xabc", quizID)
	require.NoError(t, err)
	require.True(t, attempt.Rewarded)
	require.Equal(t, []int{1, 1}, attempt.Answers, "second play must not alter the first attempt")
}

func TestCreateQuizValidation(t *testing.T) {
	ctx := context.Background()

	valid := twoQuestionQuiz(1)
	cases := []struct {
		name   string
		mutate func(q *domain.NewQuiz)
	}{
		{"passing score exceeds questions", func(q *domain.NewQuiz) { q.PassingScore = 3 }},
		{"negative passing score", func(q *domain.NewQuiz) { q.PassingScore = -1 }},
		{"blank title", func(q *domain.NewQuiz) { q.Title = "  " }},
		{"no questions", func(q *domain.NewQuiz) { q.Questions = nil; q.PassingScore = 0 }},
		{"single option", func(q *domain.NewQuiz) { q.Questions[0].Options = []string{"only"} }},
		{"correct answer out of range", func(q *domain.NewQuiz) { q.Questions[1].CorrectAnswer = 5 }},
		{"negative reward pool", func(q *domain.NewQuiz) { q.RewardPool = -10 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service, _ := newTestService()
			in := valid
			in.Questions = append([]domain.Question(nil), valid.Questions...)
			tc.mutate(&in)

			_, err := service.CreateQuiz(ctx, in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)

			quizzes, err := service.ListQuizzes(ctx)
			require.NoError(t, err)
			require.Empty(t, quizzes)
			stats, err := service.Stats(ctx)
			require.NoError(t, err)
			require.Zero(t, stats.TotalQuizzes)
		})
	}
}

func TestPlayQuizPreconditionOrder(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	_, err := service.PlayQuiz(ctx, "missing", "0xabc", []int{0})
	require.ErrorIs(t, err, domain.ErrQuizNotFound)

	quizID, err := service.CreateQuiz(ctx, twoQuestionQuiz(1))
	require.NoError(t, err)

	_, err = service.PlayQuiz(ctx, quizID, "0xabc", []int{1})
	require.ErrorIs(t, err, domain.ErrAnswerCountMismatch)

	_, err = service.PlayQuiz(ctx, quizID, "", []int{1, 0})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	active, err := service.ToggleActive(ctx, quizID)
	require.NoError(t, err)
	require.False(t, active)

	// inactive wins over the answer count check
	_, err = service.PlayQuiz(ctx, quizID, "0xabc", []int{1})
	require.ErrorIs(t, err, domain.ErrQuizInactive)

	stats, err := service.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.TotalParticipants)
}

func TestFailedAttemptCannotBeRewarded(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	quizID, err := service.CreateQuiz(ctx, twoQuestionQuiz(2))
	require.NoError(t, err)

	result, err := service.PlayQuiz(ctx, quizID, "0xabc", []int{1, domain.NoAnswer})
	require.NoError(t, err)
	require.False(t, result.Passed)
	require.False(t, result.RewardEligible)
	require.Equal(t, "You did not pass this quiz", result.Message)

	_, err = service.DistributeReward(ctx, "0xabc", quizID, 10)
	require.ErrorIs(t, err, domain.ErrRewardNotPassed)

	_, err = service.DistributeReward(ctx, "0xnobody", quizID, 10)
	require.ErrorIs(t, err, domain.ErrAttemptNotFound)

	_, err = service.DistributeReward(ctx, "0xabc", quizID, -1)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	stats, err := service.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.TotalRewardsDistributed)
}

func TestNonFiniteAmountsAreRejected(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	for _, pool := range []float64{math.Inf(1), math.NaN()} {
		in := twoQuestionQuiz(1)
		in.RewardPool = pool
		_, err := service.CreateQuiz(ctx, in)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	quizID, err := service.CreateQuiz(ctx, twoQuestionQuiz(1))
	require.NoError(t, err)
	_, err = service.PlayQuiz(ctx, quizID, "0xabc", []int{1, 0})
	require.NoError(t, err)

	for _, amount := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		_, err := service.DistributeReward(ctx, "0xabc", quizID, amount)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	stats, err := service.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.TotalQuizzes)
	require.Zero(t, stats.TotalRewardsDistributed)

	attempt, err := service.GetAttempt(ctx, "0xabc", quizID)
	require.NoError(t, err)
	require.False(t, attempt.Rewarded)
}

func TestStatsFeedNeverGoesBackwards(t *testing.T) {
	ctx := context.Background()
	service, feed := newTestService()

	quizID, err := service.CreateQuiz(ctx, twoQuestionQuiz(1))
	require.NoError(t, err)

	updates, cancel := feed.Subscribe()
	var (
		received []domain.Stats
		done     = make(chan struct{})
	)
	go func() {
		defer close(done)
		for stats := range updates {
			received = append(received, stats)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := service.PlayQuiz(ctx, quizID, fmt.Sprintf("0x%02d", i), []int{1, 0}); err != nil {
				t.Errorf("play %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()
	cancel()
	<-done

	require.NotEmpty(t, received)
	for i := 1; i < len(received); i++ {
		require.GreaterOrEqual(t, received[i].TotalParticipants, received[i-1].TotalParticipants,
			"snapshot %d went backwards", i)
	}
	require.EqualValues(t, 50, received[len(received)-1].TotalParticipants)
}

func TestGetAttemptReturnsSentinelWhenAbsent(t *testing.T) {
	service, _ := newTestService()

	attempt, err := service.GetAttempt(context.Background(), "0xabc", "never-played")
	require.NoError(t, err)
	require.Equal(t, domain.EmptyAttempt("0xabc", "never-played"), attempt)
	require.Zero(t, attempt.Score)
	require.False(t, attempt.Rewarded)
	require.Empty(t, attempt.Answers)
}

func TestToggleTwiceRestoresRedaction(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	quizID, err := service.CreateQuiz(ctx, twoQuestionQuiz(1))
	require.NoError(t, err)

	view, err := service.GetQuiz(ctx, quizID)
	require.NoError(t, err)
	require.True(t, view.Active)
	require.Nil(t, view.Questions[0].CorrectAnswer)

	active, err := service.ToggleActive(ctx, quizID)
	require.NoError(t, err)
	require.False(t, active)
	view, err = service.GetQuiz(ctx, quizID)
	require.NoError(t, err)
	require.NotNil(t, view.Questions[0].CorrectAnswer)
	require.Equal(t, 1, *view.Questions[0].CorrectAnswer)

	active, err = service.ToggleActive(ctx, quizID)
	require.NoError(t, err)
	require.True(t, active)
	view, err = service.GetQuiz(ctx, quizID)
	require.NoError(t, err)
	require.Nil(t, view.Questions[0].CorrectAnswer)

	_, err = service.ToggleActive(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrQuizNotFound)
}

func TestConcurrentPlaysRecordOneAttempt(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	quizID, err := service.CreateQuiz(ctx, twoQuestionQuiz(1))
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.PlayQuiz(ctx, quizID, "0xabc", []int{1, 0}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	stats, err := service.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.TotalParticipants)
	require.Equal(t, 2, stats.HighestScore)
}

func TestListQuizzesKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService()

	var ids []string
	for i := 0; i < 3; i++ {
		in := twoQuestionQuiz(0)
		in.Title = fmt.Sprintf("Quiz %d", i)
		id, err := service.CreateQuiz(ctx, in)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	views, err := service.ListQuizzes(ctx)
	require.NoError(t, err)
	require.Len(t, views, 3)
	for i, view := range views {
		require.Equal(t, ids[i], view.ID)
		require.True(t, view.Active)
	}
}

func TestStatsFeedReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service, feed := newTestService()

	updates, cancel := feed.Subscribe()
	defer cancel()
	<-updates // initial snapshot

	_, err := service.CreateQuiz(ctx, twoQuestionQuiz(1))
	require.NoError(t, err)

	select {
	case stats := <-updates:
		require.EqualValues(t, 1, stats.TotalQuizzes)
	case <-time.After(time.Second):
		t.Fatal("expected stats update")
	}
}

func newTestService() (*app.QuizService, *app.StatsFeed) {
	feed := app.NewStatsFeed()
	seq := 0
	service := app.NewQuizService(
		memory.NewQuizStore(),
		memory.NewParticipationStore(),
		memory.NewStatsStore(),
		app.WithClock(func() time.Time { return time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC) }),
		app.WithIDGenerator(func() (string, error) {
			seq++
			return fmt.Sprintf("quiz-%d", seq), nil
		}),
		app.WithStatsFeed(feed),
	)
	return service, feed
}

func twoQuestionQuiz(passingScore int) domain.NewQuiz {
	return domain.NewQuiz{
		Title:       "Arithmetic",
		Description: "Warm-up",
		Questions: []domain.Question{
			{Text: "2 + 2?", Options: []string{"3", "4"}, CorrectAnswer: 1},
			{Text: "3 + 3?", Options: []string{"6", "7"}, CorrectAnswer: 0},
		},
		RewardPool:   100,
		PassingScore: passingScore,
		Creator:      "0xadmin",
	}
}
