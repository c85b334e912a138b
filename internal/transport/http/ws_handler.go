package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
)

const statsWriteWait = 10 * time.Second

// StatsStreamHandler pushes statistics snapshots to websocket clients.
type StatsStreamHandler struct {
	feed     *app.StatsFeed
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewStatsStreamHandler(feed *app.StatsFeed, log *slog.Logger) *StatsStreamHandler {
	return &StatsStreamHandler{
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the request and streams a "stats" message for every counter change.
func (h *StatsStreamHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	// the client never sends anything useful; reading detects disconnects
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case stats, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(statsWriteWait))
			if err := conn.WriteJSON(outboundMessage[domain.Stats]{Type: "stats", Payload: stats}); err != nil {
				h.log.Debug("ws write error", "error", err)
				return
			}
		case <-readerDone:
			return
		case <-r.Context().Done():
			return
		}
	}
}
