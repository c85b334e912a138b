package domain

import "time"

// NoAnswer marks a question the participant left unanswered. It never matches a correct option.
const NoAnswer = -1

// Question is a multiple-choice question embedded in a quiz.
type Question struct {
	Text          string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
}

// Quiz is a named set of questions with a reward pool and passing threshold.
// Only Active changes after creation.
type Quiz struct {
	ID           string     `json:"quiz_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Questions    []Question `json:"questions"`
	RewardPool   float64    `json:"reward_pool"`
	PassingScore int        `json:"passing_score"`
	Creator      string     `json:"creator"`
	Active       bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewQuiz carries the caller supplied fields of a quiz before an ID is assigned.
type NewQuiz struct {
	Title        string
	Description  string
	Questions    []Question
	RewardPool   float64
	PassingScore int
	Creator      string
}

// Attempt is one participant's single recorded submission for a quiz.
type Attempt struct {
	Participant string    `json:"address"`
	QuizID      string    `json:"quiz_id"`
	Score       int       `json:"score"`
	Answers     []int     `json:"answers"`
	SubmittedAt time.Time `json:"timestamp"`
	Rewarded    bool      `json:"rewarded"`
}

// EmptyAttempt is returned for participants that have not played a quiz yet.
func EmptyAttempt(participant, quizID string) Attempt {
	return Attempt{
		Participant: participant,
		QuizID:      quizID,
		Answers:     []int{},
	}
}

// Stats holds the platform wide counters. Values only ever grow.
type Stats struct {
	TotalParticipants       int64   `json:"total_participants"`
	TotalRewardsDistributed float64 `json:"total_rewards_distributed"`
	HighestScore            int     `json:"highest_score"`
	TotalQuizzes            int64   `json:"total_quizzes"`
}

// QuestionView is a question as shown to clients. CorrectAnswer is nil while the quiz is active.
type QuestionView struct {
	Text          string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"`
}

// QuizView is the public representation of a quiz.
type QuizView struct {
	ID           string         `json:"quiz_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Questions    []QuestionView `json:"questions"`
	RewardPool   float64        `json:"reward_pool"`
	PassingScore int            `json:"passing_score"`
	Creator      string         `json:"creator"`
	Active       bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
}

// PublicView hides correct answers while the quiz is active and reveals them once it is closed.
func (q Quiz) PublicView() QuizView {
	questions := make([]QuestionView, 0, len(q.Questions))
	for _, question := range q.Questions {
		view := QuestionView{
			Text:    question.Text,
			Options: append([]string(nil), question.Options...),
		}
		if !q.Active {
			correct := question.CorrectAnswer
			view.CorrectAnswer = &correct
		}
		questions = append(questions, view)
	}
	return QuizView{
		ID:           q.ID,
		Title:        q.Title,
		Description:  q.Description,
		Questions:    questions,
		RewardPool:   q.RewardPool,
		PassingScore: q.PassingScore,
		Creator:      q.Creator,
		Active:       q.Active,
		CreatedAt:    q.CreatedAt,
	}
}

// Score counts exact matches between answers and the correct options.
// Callers must ensure len(answers) == len(q.Questions).
func (q Quiz) Score(answers []int) int {
	score := 0
	for i, question := range q.Questions {
		if i < len(answers) && answers[i] == question.CorrectAnswer {
			score++
		}
	}
	return score
}

// Passed reports whether score reaches the passing threshold.
func (q Quiz) Passed(score int) bool {
	return score >= q.PassingScore
}

// ScoreResult summarizes a played quiz for the participant.
type ScoreResult struct {
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	Passed         bool   `json:"passed"`
	RewardEligible bool   `json:"reward_eligible"`
	Message        string `json:"message"`
}

// RewardConfirmation is returned after a reward has been distributed.
type RewardConfirmation struct {
	Participant string  `json:"participant"`
	QuizID      string  `json:"quizId"`
	Amount      float64 `json:"amount"`
}
