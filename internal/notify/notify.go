package notify

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Severity classifies a notification for the presenting UI.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notification is the {title, description, severity} triple consumed by
// the presentation layer (rendered as a toast in the web UI).
type Notification struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// Notifier receives notifications fire-and-forget; implementations must
// not block the caller.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(n Notification) {
	ev := l.log.Info()
	if n.Severity == SeverityError {
		ev = l.log.Error()
	}
	ev.Str("title", n.Title).Str("description", n.Description).Msg("notification")
}

// Broadcaster fans notifications out to subscribers (websocket clients)
// and to an optional fallback notifier.
type Broadcaster struct {
	mu       sync.Mutex
	subs     map[int64]chan Notification
	nextID   int64
	fallback Notifier
}

func NewBroadcaster(fallback Notifier) *Broadcaster {
	return &Broadcaster{
		subs:     make(map[int64]chan Notification),
		fallback: fallback,
	}
}

func (b *Broadcaster) Notify(n Notification) {
	n.Title = strings.TrimSpace(n.Title)
	b.mu.Lock()
	for _, ch := range b.subs {
		select {
		case ch <- n:
		default:
		}
	}
	b.mu.Unlock()
	if b.fallback != nil {
		b.fallback.Notify(n)
	}
}

// Subscribe returns a channel of future notifications and a cancel func.
func (b *Broadcaster) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, 8)
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
