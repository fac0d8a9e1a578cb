package conversation

import (
	"context"
	"sync"
	"time"
)

// History is an append-only, in-memory log of turns. Append is the only
// mutation; turns are never edited, removed, or reordered. It is safe for
// concurrent use by the orchestrator and the uploader.
type History struct {
	mu      sync.Mutex
	turns   []Turn
	nextSeq int64
	watches map[int64]chan Turn
	watchID int64
}

func NewHistory() *History {
	return &History{
		nextSeq: 1,
		watches: make(map[int64]chan Turn),
	}
}

// Append records a turn, assigning its sequence number and timestamp.
// It never fails.
func (h *History) Append(role Role, content string) Turn {
	h.mu.Lock()
	t := Turn{
		Role:    role,
		Content: content,
		Seq:     h.nextSeq,
		At:      time.Now(),
	}
	h.nextSeq++
	h.turns = append(h.turns, t)
	for _, ch := range h.watches {
		select {
		case ch <- t:
		default:
			// Watcher is behind; it recovers via replay on reconnect.
		}
	}
	h.mu.Unlock()
	return t
}

// Snapshot returns a copy of all turns appended before the call.
func (h *History) Snapshot() []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len reports the number of appended turns.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

// Watch returns the turns with Seq > fromSeq already in the log, plus a
// channel of turns appended afterwards. The channel is closed when ctx is
// canceled. A slow receiver may miss live turns; replaying from its last
// seen seq recovers them.
func (h *History) Watch(ctx context.Context, fromSeq int64) ([]Turn, <-chan Turn) {
	h.mu.Lock()
	var replay []Turn
	for _, t := range h.turns {
		if t.Seq > fromSeq {
			replay = append(replay, t)
		}
	}
	ch := make(chan Turn, 32)
	h.watchID++
	id := h.watchID
	h.watches[id] = ch
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.watches, id)
		h.mu.Unlock()
		close(ch)
	}()

	return replay, ch
}
