package submission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"reviewflow/internal/conversation"
	"reviewflow/internal/notify"
)

type fakeAnalyzer struct {
	gate  chan struct{}
	reply string
	err   error
	gotCh chan string
}

func newFakeAnalyzer(reply string) *fakeAnalyzer {
	return &fakeAnalyzer{reply: reply, gotCh: make(chan string, 8)}
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, content string) (string, error) {
	f.gotCh <- content
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

type chanNotifier struct {
	ch chan notify.Notification
}

func newChanNotifier() *chanNotifier {
	return &chanNotifier{ch: make(chan notify.Notification, 8)}
}

func (c *chanNotifier) Notify(n notify.Notification) { c.ch <- n }

func newTestOrchestrator(t *testing.T, analyzer *fakeAnalyzer, notifier notify.Notifier) (*Orchestrator, *conversation.History) {
	t.Helper()
	history := conversation.NewHistory()
	orch, err := NewOrchestrator(analyzer, history, notifier, time.Minute, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewOrchestrator() error = %v", err)
	}
	return orch, history
}

func waitForTurn(t *testing.T, live <-chan conversation.Turn) conversation.Turn {
	t.Helper()
	select {
	case turn := <-live:
		return turn
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for turn")
		return conversation.Turn{}
	}
}

func TestSubmitComposesURLThenNotes(t *testing.T) {
	analyzer := newFakeAnalyzer("ok")
	orch, history := newTestOrchestrator(t, analyzer, newChanNotifier())

	orch.SetURL("http://example.com")
	orch.SetNotes("please review")
	if !orch.Submit() {
		t.Fatalf("Submit() accepted = false, want true")
	}

	want := "🔗 URL: http://example.com\n\nplease review"
	snap := history.Snapshot()
	if len(snap) == 0 {
		t.Fatalf("no user turn appended")
	}
	if snap[0].Role != conversation.RoleUser {
		t.Fatalf("first turn role = %q, want user", snap[0].Role)
	}
	if snap[0].Content != want {
		t.Fatalf("user turn content = %q, want %q", snap[0].Content, want)
	}

	select {
	case got := <-analyzer.gotCh:
		if got != want {
			t.Fatalf("Analyze() content = %q, want %q", got, want)
		}
	case <-time.After(1 * time.Second):
		t.Fatalf("analyzer was never called")
	}
}

func TestSubmitURLOnlyAndNotesOnly(t *testing.T) {
	for name, tc := range map[string]struct {
		url, notes, want string
	}{
		"url only":   {url: "http://example.com", want: "🔗 URL: http://example.com"},
		"notes only": {notes: "just notes", want: "just notes"},
	} {
		analyzer := newFakeAnalyzer("ok")
		orch, history := newTestOrchestrator(t, analyzer, newChanNotifier())

		orch.SetURL(tc.url)
		orch.SetNotes(tc.notes)
		if !orch.Submit() {
			t.Fatalf("%s: Submit() accepted = false", name)
		}
		if got := history.Snapshot()[0].Content; got != tc.want {
			t.Fatalf("%s: content = %q, want %q", name, got, tc.want)
		}
	}
}

func TestSubmitClearsPendingImmediately(t *testing.T) {
	analyzer := newFakeAnalyzer("ok")
	analyzer.gate = make(chan struct{})
	orch, _ := newTestOrchestrator(t, analyzer, newChanNotifier())

	orch.SetURL("http://example.com")
	orch.SetNotes("some notes")
	if !orch.Submit() {
		t.Fatalf("Submit() accepted = false")
	}

	// Pending is cleared before the analysis resolves.
	if p := orch.Pending(); p.URLText != "" || p.NotesText != "" {
		t.Fatalf("Pending() = %+v, want empty", p)
	}
	close(analyzer.gate)
}

func TestSubmitRejectsEmptyInput(t *testing.T) {
	analyzer := newFakeAnalyzer("ok")
	orch, history := newTestOrchestrator(t, analyzer, newChanNotifier())

	if orch.Submit() {
		t.Fatalf("Submit() accepted = true for empty input")
	}
	orch.SetNotes("   ")
	if orch.Submit() {
		t.Fatalf("Submit() accepted = true for whitespace input")
	}
	if n := history.Len(); n != 0 {
		t.Fatalf("history len = %d, want 0", n)
	}
	if st := orch.State(); st != StateIdle {
		t.Fatalf("State() = %q, want idle", st)
	}
}

func TestSingleInFlightInvariant(t *testing.T) {
	analyzer := newFakeAnalyzer("analysis done")
	analyzer.gate = make(chan struct{})
	orch, history := newTestOrchestrator(t, analyzer, newChanNotifier())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, live := history.Watch(ctx, 0)

	orch.SetNotes("first")
	if !orch.Submit() {
		t.Fatalf("first Submit() accepted = false")
	}
	if st := orch.State(); st != StateInFlight {
		t.Fatalf("State() = %q, want inFlight", st)
	}

	orch.SetNotes("second while busy")
	if orch.Submit() {
		t.Fatalf("second Submit() accepted = true while in flight")
	}

	close(analyzer.gate)

	waitForTurn(t, live) // user turn
	assistant := waitForTurn(t, live)
	if assistant.Role != conversation.RoleAssistant || assistant.Content != "analysis done" {
		t.Fatalf("assistant turn = %+v", assistant)
	}
	if st := orch.State(); st != StateIdle {
		t.Fatalf("State() after resolution = %q, want idle", st)
	}

	// The gate is open again; the retained pending input may submit now.
	if !orch.Submit() {
		t.Fatalf("Submit() after resolution accepted = false")
	}
}

func TestAnalysisFailurePreservesUserTurn(t *testing.T) {
	analyzer := newFakeAnalyzer("")
	analyzer.err = errors.New("backend unavailable")
	notifier := newChanNotifier()
	orch, history := newTestOrchestrator(t, analyzer, notifier)

	orch.SetNotes("analyze this")
	if !orch.Submit() {
		t.Fatalf("Submit() accepted = false")
	}

	select {
	case n := <-notifier.ch:
		if n.Severity != notify.SeverityError {
			t.Fatalf("notification severity = %q, want error", n.Severity)
		}
		if n.Title != "Error" || n.Description != "Failed to process input" {
			t.Fatalf("notification = %+v", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for failure notification")
	}

	snap := history.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("history len = %d, want 1 (user turn only)", len(snap))
	}
	if snap[0].Role != conversation.RoleUser || snap[0].Content != "analyze this" {
		t.Fatalf("surviving turn = %+v, want user analyze this", snap[0])
	}
	if st := orch.State(); st != StateIdle {
		t.Fatalf("State() = %q, want idle", st)
	}
}

func TestAnalysisTimeoutResolvesToFailure(t *testing.T) {
	analyzer := newFakeAnalyzer("late")
	analyzer.gate = make(chan struct{}) // never closed; only ctx expiry releases it
	notifier := newChanNotifier()
	history := conversation.NewHistory()
	orch, err := NewOrchestrator(analyzer, history, notifier, 20*time.Millisecond, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewOrchestrator() error = %v", err)
	}

	orch.SetNotes("slow one")
	if !orch.Submit() {
		t.Fatalf("Submit() accepted = false")
	}

	select {
	case n := <-notifier.ch:
		if n.Severity != notify.SeverityError {
			t.Fatalf("notification severity = %q, want error", n.Severity)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for timeout notification")
	}
	if st := orch.State(); st != StateIdle {
		t.Fatalf("State() = %q, want idle", st)
	}
	if n := history.Len(); n != 1 {
		t.Fatalf("history len = %d, want 1", n)
	}
}
