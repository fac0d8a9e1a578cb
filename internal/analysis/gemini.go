package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	genai "google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("analysis: empty response from model")

const geminiPrompt = "You are a content analyst. The user submitted the following " +
	"material (a URL reference, free-form notes, or both). Analyze it and reply " +
	"with detailed feedback as markdown.\n\n"

// GeminiAnalyzer is a thin wrapper around the official genai client.
type GeminiAnalyzer struct {
	cli   *genai.Client
	model string
}

func NewGeminiAnalyzer(ctx context.Context, model string) (*GeminiAnalyzer, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiAnalyzer{cli: cli, model: model}, nil
}

func (g *GeminiAnalyzer) Name() string { return "Gemini:" + g.model }

func (g *GeminiAnalyzer) Analyze(ctx context.Context, content string) (string, error) {
	full := geminiPrompt + content

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
			nil,
		)
		if err != nil {
			lastErr = err
		} else if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = ErrEmptyResponse
		} else {
			return resp.Candidates[0].Content.Parts[0].Text, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(300*(1<<attempt)) * time.Millisecond):
		}
	}
	return "", lastErr
}
