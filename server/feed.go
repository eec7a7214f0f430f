package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/xhad/aibench/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const writeWait = 10 * time.Second

type Message struct {
	Type    string                      `json:"type"`
	Content string                      `json:"content,omitempty"`
	Data    map[string][]models.UseCase `json:"data,omitempty"`
}

// handleFeed pushes the grouped use cases on connect and again whenever the
// number of stored records changes. The feed is read-only; client messages
// are discarded.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	s.metrics.feedClients.Inc()
	defer s.metrics.feedClients.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	last := -1
	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		count, err := s.reader.Count(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("failed to count use cases", "err", err)
			if !s.send(conn, Message{Type: "error", Content: err.Error()}) {
				return
			}
		} else if count != last {
			grouped, err := s.reader.GroupByIndustry(ctx)
			if err != nil {
				slog.Error("failed to load use cases", "err", err)
				if !s.send(conn, Message{Type: "error", Content: err.Error()}) {
					return
				}
			} else {
				last = count
				if !s.send(conn, Message{Type: "snapshot", Data: grouped}) {
					return
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) send(conn *websocket.Conn, msg Message) bool {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		slog.Debug("websocket write failed", "err", err)
		return false
	}
	return true
}
