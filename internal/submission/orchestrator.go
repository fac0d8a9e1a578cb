// Package submission owns the lifecycle of a single conversation turn:
// validating pending input, appending the user turn, dispatching the
// asynchronous analysis call, and folding its outcome back into history.
package submission

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"reviewflow/internal/analysis"
	"reviewflow/internal/conversation"
	"reviewflow/internal/notify"
)

// State is the per-session submission gate. At most one submission may be
// in flight; further submits are guarded no-ops until resolution.
type State string

const (
	StateIdle     State = "idle"
	StateInFlight State = "inFlight"
)

const defaultAnalysisTimeout = 60 * time.Second

// Pending is the transient input held between user edits and submit.
type Pending struct {
	URLText   string `json:"url"`
	NotesText string `json:"notes"`
}

// Orchestrator drives the idle → inFlight → idle cycle for one session.
// The mutex guards state and pending together, so the user-turn append,
// the pending clear, and the inFlight transition are visible atomically.
type Orchestrator struct {
	analyzer analysis.Analyzer
	history  *conversation.History
	notifier notify.Notifier
	timeout  time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	state   State
	pending Pending
}

func NewOrchestrator(analyzer analysis.Analyzer, history *conversation.History, notifier notify.Notifier, timeout time.Duration, log zerolog.Logger) (*Orchestrator, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("submission: analyzer must not be nil")
	}
	if history == nil {
		return nil, fmt.Errorf("submission: history must not be nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("submission: notifier must not be nil")
	}
	if timeout <= 0 {
		timeout = defaultAnalysisTimeout
	}
	return &Orchestrator{
		analyzer: analyzer,
		history:  history,
		notifier: notifier,
		timeout:  timeout,
		log:      log,
		state:    StateIdle,
	}, nil
}

// SetURL updates the pending URL field.
func (o *Orchestrator) SetURL(url string) {
	o.mu.Lock()
	o.pending.URLText = url
	o.mu.Unlock()
}

// SetNotes updates the pending notes field.
func (o *Orchestrator) SetNotes(notes string) {
	o.mu.Lock()
	o.pending.NotesText = notes
	o.mu.Unlock()
}

// Pending returns the current pending input.
func (o *Orchestrator) Pending() Pending {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending
}

// State returns the current submission state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Submit starts one submission cycle. It reports whether the submission
// was accepted; a rejected call (empty input, or already in flight)
// changes nothing and is not an error — the UI disables the control.
// The user turn is appended and pending cleared before the analysis call
// is dispatched; the caller never blocks on the analysis itself.
func (o *Orchestrator) Submit() bool {
	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return false
	}
	content := composeContent(o.pending)
	if content == "" {
		o.mu.Unlock()
		return false
	}
	o.state = StateInFlight
	o.history.Append(conversation.RoleUser, content)
	o.pending = Pending{}
	o.mu.Unlock()

	go o.runAnalysis(content)
	return true
}

func (o *Orchestrator) runAnalysis(content string) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	reply, err := o.analyzer.Analyze(ctx, content)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		// The user's turn stays; a failed analysis never erases input.
		o.log.Error().Err(err).Msg("analysis failed")
		o.notifier.Notify(notify.Notification{
			Title:       "Error",
			Description: "Failed to process input",
			Severity:    notify.SeverityError,
		})
		o.state = StateIdle
		return
	}
	o.history.Append(conversation.RoleAssistant, reply)
	o.state = StateIdle
}

// composeContent joins the pending fields into the user turn: the URL
// line first, then the notes, separated by a blank line. The order is a
// user-facing contract matching the input form.
func composeContent(p Pending) string {
	var parts []string
	if url := strings.TrimSpace(p.URLText); url != "" {
		parts = append(parts, "🔗 URL: "+url)
	}
	if notes := strings.TrimSpace(p.NotesText); notes != "" {
		parts = append(parts, notes)
	}
	return strings.Join(parts, "\n\n")
}
