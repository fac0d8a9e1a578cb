package conversation

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestAppendAssignsSequence(t *testing.T) {
	h := NewHistory()

	first := h.Append(RoleUser, "hello")
	second := h.Append(RoleAssistant, "hi there")

	if first.Seq != 1 {
		t.Fatalf("first Seq = %d, want 1", first.Seq)
	}
	if second.Seq != 2 {
		t.Fatalf("second Seq = %d, want 2", second.Seq)
	}

	snap := h.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot() len = %d, want 2", len(snap))
	}
	if snap[0].Content != "hello" || snap[0].Role != RoleUser {
		t.Fatalf("snap[0] = %+v, want user hello", snap[0])
	}
	if snap[1].Content != "hi there" || snap[1].Role != RoleAssistant {
		t.Fatalf("snap[1] = %+v, want assistant hi there", snap[1])
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	h := NewHistory()
	h.Append(RoleUser, "original")

	snap := h.Snapshot()
	snap[0].Content = "mutated"

	if got := h.Snapshot()[0].Content; got != "original" {
		t.Fatalf("content after snapshot mutation = %q, want %q", got, "original")
	}
}

func TestConcurrentAppendsLoseNothing(t *testing.T) {
	h := NewHistory()
	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				h.Append(RoleUser, "turn")
			}
		}()
	}
	wg.Wait()

	snap := h.Snapshot()
	if len(snap) != writers*perWriter {
		t.Fatalf("Snapshot() len = %d, want %d", len(snap), writers*perWriter)
	}
	for i, turn := range snap {
		if turn.Seq != int64(i+1) {
			t.Fatalf("snap[%d].Seq = %d, want %d", i, turn.Seq, i+1)
		}
	}
}

func TestWatchReplaysAndStreams(t *testing.T) {
	h := NewHistory()
	h.Append(RoleUser, "before")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	replay, live := h.Watch(ctx, 0)
	if len(replay) != 1 || replay[0].Content != "before" {
		t.Fatalf("replay = %+v, want single turn %q", replay, "before")
	}

	h.Append(RoleAssistant, "after")
	select {
	case turn := <-live:
		if turn.Content != "after" || turn.Role != RoleAssistant {
			t.Fatalf("live turn = %+v, want assistant after", turn)
		}
	case <-time.After(1 * time.Second):
		t.Fatalf("timed out waiting for live turn")
	}
}

func TestWatchFromSeqSkipsSeen(t *testing.T) {
	h := NewHistory()
	h.Append(RoleUser, "one")
	seen := h.Append(RoleUser, "two")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	replay, _ := h.Watch(ctx, seen.Seq)
	if len(replay) != 0 {
		t.Fatalf("replay len = %d, want 0", len(replay))
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	h := NewHistory()
	ctx, cancel := context.WithCancel(context.Background())

	_, live := h.Watch(ctx, 0)
	cancel()

	select {
	case _, ok := <-live:
		if ok {
			t.Fatalf("expected closed channel after cancel")
		}
	case <-time.After(1 * time.Second):
		t.Fatalf("timed out waiting for channel close")
	}
}
