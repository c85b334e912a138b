package redis

const (
	quizzesKey = "quiz:quizzes"
	orderKey   = "quiz:order"
	statsKey   = "quiz:stats"
)

func attemptsKey(quizID string) string {
	return "quiz:attempts:" + quizID
}

func rewardedKey(quizID string) string {
	return "quiz:rewarded:" + quizID
}
