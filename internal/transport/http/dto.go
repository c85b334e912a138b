package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"quiz-platform/internal/domain"
)

// number accepts both JSON numbers and numeric strings; browser forms post the latter.
// Non-finite values are rejected since they cannot be encoded back to JSON.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var f float64
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		f = parsed
	} else if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("invalid number %q: not finite", data)
	}
	*n = number(f)
	return nil
}

// wholeNumber is a number that must be integral and fit in an int32.
type wholeNumber int

func (w *wholeNumber) UnmarshalJSON(data []byte) error {
	var n number
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	f := float64(n)
	if f != math.Trunc(f) {
		return fmt.Errorf("invalid integer %s", data)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return fmt.Errorf("integer %s out of range", data)
	}
	*w = wholeNumber(f)
	return nil
}

type questionRequest struct {
	Text          string   `json:"question_text" validate:"required"`
	Options       []string `json:"options" validate:"min=2,dive,required"`
	CorrectAnswer *int     `json:"correct_answer" validate:"required,gte=0"`
}

type createQuizRequest struct {
	Title        string            `json:"title" validate:"required"`
	Description  string            `json:"description"`
	Questions    []questionRequest `json:"questions" validate:"required,min=1,dive"`
	RewardPool   number            `json:"reward_pool" validate:"gte=0"`
	PassingScore wholeNumber       `json:"passing_score" validate:"gte=0"`
	AdminAddress string            `json:"adminAddress"`
}

func (r createQuizRequest) toDomain() domain.NewQuiz {
	questions := make([]domain.Question, len(r.Questions))
	for i, q := range r.Questions {
		questions[i] = domain.Question{
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: *q.CorrectAnswer,
		}
	}
	return domain.NewQuiz{
		Title:        r.Title,
		Description:  r.Description,
		Questions:    questions,
		RewardPool:   float64(r.RewardPool),
		PassingScore: int(r.PassingScore),
		Creator:      r.AdminAddress,
	}
}

type playQuizRequest struct {
	Participant string `json:"participant" validate:"required"`
	// nil entries are unanswered questions; explicit indexes must not be negative
	Answers     []*int `json:"answers" validate:"required,dive,omitempty,gte=0"`
}

// answerIndexes maps JSON nulls to domain.NoAnswer.
func (r playQuizRequest) answerIndexes() []int {
	answers := make([]int, len(r.Answers))
	for i, a := range r.Answers {
		if a == nil {
			answers[i] = domain.NoAnswer
			continue
		}
		answers[i] = *a
	}
	return answers
}

type distributeRewardRequest struct {
	Participant  string `json:"participant" validate:"required"`
	QuizID       string `json:"quizId" validate:"required"`
	RewardAmount number `json:"rewardAmount" validate:"gte=0"`
}

type questionResponse struct {
	Text          string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"`
}

type quizResponse struct {
	ID           string             `json:"quiz_id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Questions    []questionResponse `json:"questions"`
	RewardPool   float64            `json:"reward_pool"`
	PassingScore int                `json:"passing_score"`
	Creator      string             `json:"creator"`
	Active       bool               `json:"is_active"`
	CreatedAt    int64              `json:"created_at"`
}

func newQuizResponse(view domain.QuizView) quizResponse {
	questions := make([]questionResponse, len(view.Questions))
	for i, q := range view.Questions {
		questions[i] = questionResponse{Text: q.Text, Options: q.Options, CorrectAnswer: q.CorrectAnswer}
	}
	return quizResponse{
		ID:           view.ID,
		Title:        view.Title,
		Description:  view.Description,
		Questions:    questions,
		RewardPool:   view.RewardPool,
		PassingScore: view.PassingScore,
		Creator:      view.Creator,
		Active:       view.Active,
		CreatedAt:    unixMillis(view.CreatedAt),
	}
}

type attemptResponse struct {
	Address   string `json:"address"`
	Score     int    `json:"score"`
	QuizID    string `json:"quiz_id"`
	Timestamp int64  `json:"timestamp"`
	Rewarded  bool   `json:"rewarded"`
	Answers   []*int `json:"answers"`
}

func newAttemptResponse(attempt domain.Attempt) attemptResponse {
	answers := make([]*int, len(attempt.Answers))
	for i, a := range attempt.Answers {
		if a == domain.NoAnswer {
			continue
		}
		a := a
		answers[i] = &a
	}
	return attemptResponse{
		Address:   attempt.Participant,
		Score:     attempt.Score,
		QuizID:    attempt.QuizID,
		Timestamp: unixMillis(attempt.SubmittedAt),
		Rewarded:  attempt.Rewarded,
		Answers:   answers,
	}
}

func unixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
