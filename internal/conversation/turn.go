package conversation

import "time"

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one immutable entry in a conversation. Content is
// markdown-formatted text. Seq is assigned by the history on append and
// follows append order; it exists so watchers can resume after a
// reconnect, not as an independent ordering signal.
type Turn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	Seq     int64     `json:"seq"`
	At      time.Time `json:"at"`
}
