package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quiz-platform/internal/domain"
)

func TestStatsStreamPushesUpdates(t *testing.T) {
	service, feed := newTestService()
	router := NewRouter(service, RouterConfig{Feed: feed, Log: discardLogger()})
	server := httptest.NewServer(router)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/api/ws/stats"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Expect the current snapshot first.
	stats := readStats(conn, t)
	if stats.TotalQuizzes != 0 {
		t.Fatalf("expected empty stats, got %+v", stats)
	}

	if _, err := service.CreateQuiz(context.Background(), sampleNewQuiz()); err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	stats = readStats(conn, t)
	if stats.TotalQuizzes != 1 {
		t.Fatalf("expected total_quizzes=1, got %+v", stats)
	}
}

func TestStatsStreamUnsubscribesOnClose(t *testing.T) {
	service, feed := newTestService()
	server := httptest.NewServer(NewRouter(service, RouterConfig{Feed: feed, Log: discardLogger()}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/api/ws/stats", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	readStats(conn, t)
	if got := feed.Subscribers(); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for feed.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber not released after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func readStats(conn *websocket.Conn, t *testing.T) domain.Stats {
	t.Helper()
	var msg outboundMessage[domain.Stats]
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "stats" {
		t.Fatalf("expected type stats, got %s", msg.Type)
	}
	return msg.Payload
}
