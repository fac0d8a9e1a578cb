package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"reviewflow/internal/conversation"
)

const (
	watchWSWriteWait = 10 * time.Second
	watchWSPongWait  = 60 * time.Second
	watchWSPingEvery = (watchWSPongWait * 9) / 10
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchWSOutbound struct {
	Type        string `json:"type"`
	Role        string `json:"role,omitempty"`
	Content     string `json:"content,omitempty"`
	Seq         int64  `json:"seq,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity,omitempty"`
}

// HandleWatch streams conversation turns and notifications over a
// websocket. Turns already in the log past ?from_seq are replayed first,
// then live events follow. A client that falls behind reconnects with its
// last seen seq.
func (h *Handler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	var fromSeq int64
	if raw := strings.TrimSpace(r.URL.Query().Get("from_seq")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			http.Error(w, "from_seq must be a non-negative integer", http.StatusBadRequest)
			return
		}
		fromSeq = n
	}

	sess, err := h.resolveSession(w, r)
	if err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSPongWait)); err != nil {
		h.log.Error().Err(err).Msg("watch ws set read deadline failed")
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchWSPongWait))
	})

	writeCh := make(chan watchWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(watchWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	replay, turnCh := sess.History.Watch(ctx, fromSeq)
	noteCh, unsubscribe := sess.Notifier.Subscribe()
	defer unsubscribe()

	pushWatchWS(writeCh, watchWSOutbound{Type: "subscribed"})
	for _, t := range replay {
		pushWatchWS(writeCh, turnFrame(t))
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case t, ok := <-turnCh:
				if !ok {
					return
				}
				pushWatchWS(writeCh, turnFrame(t))
			case n, ok := <-noteCh:
				if !ok {
					return
				}
				pushWatchWS(writeCh, watchWSOutbound{
					Type:        "notification",
					Title:       n.Title,
					Description: n.Description,
					Severity:    string(n.Severity),
				})
			}
		}
	}()

	// The read loop only services pong frames and detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			cancel()
			<-writerDone
			return
		}
	}
}

func turnFrame(t conversation.Turn) watchWSOutbound {
	return watchWSOutbound{
		Type:    "turn",
		Role:    string(t.Role),
		Content: t.Content,
		Seq:     t.Seq,
	}
}

func pushWatchWS(writeCh chan watchWSOutbound, out watchWSOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
