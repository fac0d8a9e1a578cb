package analysis

import (
	"context"
	"time"
)

const stubReply = "Thank you for your input. I'll analyze this information and provide detailed feedback shortly.\n\n" +
	"## Key Points\n" +
	"- Input received and processing\n" +
	"- Analysis pending\n" +
	"- Feedback coming soon"

// Stub is a fixed-delay analyzer that returns a canned reply. It stands
// in for a real backend during local development and in tests.
type Stub struct {
	delay time.Duration
	reply string
}

func NewStub(delay time.Duration) *Stub {
	return &Stub{delay: delay, reply: stubReply}
}

// WithReply overrides the canned reply.
func (s *Stub) WithReply(reply string) *Stub {
	s.reply = reply
	return s
}

func (s *Stub) Analyze(ctx context.Context, _ string) (string, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return s.reply, nil
}
