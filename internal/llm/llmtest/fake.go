// Package llmtest provides a scriptable llm.Client for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/jonathan/cv-builder/internal/llm"
)

// Fake is an llm.Client returning canned responses and recording prompts.
type Fake struct {
	mu sync.Mutex

	// JSON is returned by GenerateJSON, Text by GenerateContent.
	JSON string
	Text string
	// Err, when set, fails every call.
	Err error
	// Down makes the client report itself unavailable and fail with llm.ErrUnavailable.
	Down bool

	JSONPrompts []string
	TextPrompts []string
}

var _ llm.Client = (*Fake)(nil)

// GenerateContent records the prompt and returns Text.
func (f *Fake) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TextPrompts = append(f.TextPrompts, prompt)
	if err := f.failure(); err != nil {
		return "", err
	}
	return f.Text, nil
}

// GenerateJSON records the prompt and returns JSON.
func (f *Fake) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.JSONPrompts = append(f.JSONPrompts, prompt)
	if err := f.failure(); err != nil {
		return "", err
	}
	return f.JSON, nil
}

// Available reports !Down.
func (f *Fake) Available() bool { return !f.Down }

// Close is a no-op.
func (f *Fake) Close() error { return nil }

// Calls returns the total number of generation calls.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.JSONPrompts) + len(f.TextPrompts)
}

func (f *Fake) failure() error {
	if f.Down {
		return llm.ErrUnavailable
	}
	return f.Err
}
