// Package session wires one conversation per browser session: a history,
// an orchestrator, and an uploader sharing it.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"reviewflow/internal/analysis"
	"reviewflow/internal/conversation"
	"reviewflow/internal/notify"
	"reviewflow/internal/objectstore"
	"reviewflow/internal/submission"
	"reviewflow/internal/upload"
)

// CookieName carries the session identifier between requests.
const CookieName = "reviewflow_session"

// Session bundles the per-conversation components.
type Session struct {
	ID           string
	History      *conversation.History
	Orchestrator *submission.Orchestrator
	Uploader     *upload.Uploader
	Notifier     *notify.Broadcaster
	CreatedAt    time.Time
}

// Manager creates and looks up sessions. Sessions are memory-only and
// live for the process lifetime.
type Manager struct {
	analyzer analysis.Analyzer
	store    objectstore.Store
	keys     upload.KeyGenerator
	timeout  time.Duration
	log      zerolog.Logger

	mu   sync.Mutex
	byID map[string]*Session
}

func NewManager(analyzer analysis.Analyzer, store objectstore.Store, keys upload.KeyGenerator, timeout time.Duration, log zerolog.Logger) (*Manager, error) {
	if analyzer == nil {
		return nil, fmt.Errorf("session: analyzer must not be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("session: object store must not be nil")
	}
	return &Manager{
		analyzer: analyzer,
		store:    store,
		keys:     keys,
		timeout:  timeout,
		log:      log,
		byID:     make(map[string]*Session),
	}, nil
}

// GetOrCreate returns the session for id, creating it if needed. An empty
// id gets a fresh one.
func (m *Manager) GetOrCreate(id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.byID[id]; ok {
		return sess, nil
	}

	log := m.log.With().Str("session", id).Logger()
	history := conversation.NewHistory()
	broadcaster := notify.NewBroadcaster(notify.NewLogNotifier(log))
	orch, err := submission.NewOrchestrator(m.analyzer, history, broadcaster, m.timeout, log)
	if err != nil {
		return nil, err
	}
	uploader, err := upload.New(m.store, m.keys, history, broadcaster, log)
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:           id,
		History:      history,
		Orchestrator: orch,
		Uploader:     uploader,
		Notifier:     broadcaster,
		CreatedAt:    time.Now(),
	}
	m.byID[id] = sess
	return sess, nil
}

// Lookup returns the session for id without creating one.
func (m *Manager) Lookup(id string) (*Session, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.byID[id]
	return sess, ok
}
