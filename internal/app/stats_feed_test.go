package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"quiz-platform/internal/domain"
)

func TestStatsFeedSendsLatestOnSubscribe(t *testing.T) {
	feed := NewStatsFeed()
	feed.Publish(domain.Stats{TotalQuizzes: 3})

	updates, cancel := feed.Subscribe()
	defer cancel()

	require.Equal(t, domain.Stats{TotalQuizzes: 3}, <-updates)
}

func TestStatsFeedSlowSubscriberKeepsNewest(t *testing.T) {
	feed := NewStatsFeed()
	updates, cancel := feed.Subscribe()
	defer cancel()

	// overflow the buffer without reading
	for i := int64(1); i <= 20; i++ {
		feed.Publish(domain.Stats{TotalQuizzes: i})
	}

	var last domain.Stats
	for len(updates) > 0 {
		last = <-updates
	}
	require.EqualValues(t, 20, last.TotalQuizzes)
}

func TestStatsFeedCancelClosesChannel(t *testing.T) {
	feed := NewStatsFeed()
	updates, cancel := feed.Subscribe()
	require.Equal(t, 1, feed.Subscribers())

	cancel()
	cancel()
	require.Equal(t, 0, feed.Subscribers())

	<-updates // initial snapshot
	_, ok := <-updates
	require.False(t, ok)

	// publishing after cancel must not panic
	feed.Publish(domain.Stats{TotalQuizzes: 1})
}
