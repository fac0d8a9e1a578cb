// Package analysis defines the asynchronous analysis capability the
// orchestrator dispatches submissions to, plus its backends.
package analysis

import "context"

// Analyzer turns submitted content into a single markdown-formatted
// reply. One request, one response; no streaming.
type Analyzer interface {
	Analyze(ctx context.Context, content string) (string, error)
}
