package llm

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// DefaultFakeBody is a schema-conforming wellness report used for offline runs.
const DefaultFakeBody = `{
  "possible_causes": ["Readings are within typical resting ranges."],
  "pattern_insights": ["Heart rate and stress level move together over the last hours."],
  "risk_level": "Low",
  "immediate_steps": ["Drink a glass of water and take a short walk."],
  "daily_recommendations": ["Keep a consistent sleep schedule.", "Aim for 7-9 hours of sleep."],
  "summary": "Offline analysis: no notable wellness concerns in the current readings."
}`

// FakeResponse is one scripted reply. Delay is waited before answering so
// tests can force out-of-order completion.
type FakeResponse struct {
	Body  string
	Err   error
	Delay time.Duration
}

// FakeClient replays scripted responses in call order, then falls back to
// DefaultFakeBody. It records every request it receives.
type FakeClient struct {
	mu       sync.Mutex
	script   []FakeResponse
	fallback FakeResponse
	calls    []Request
}

func NewFakeClient(script ...FakeResponse) *FakeClient {
	return &FakeClient{
		script:   script,
		fallback: FakeResponse{Body: DefaultFakeBody},
	}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

// SetFallback replaces the reply used once the script is exhausted.
func (f *FakeClient) SetFallback(r FakeResponse) {
	f.mu.Lock()
	f.fallback = r
	f.mu.Unlock()
}

func (f *FakeClient) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	next := f.fallback
	if len(f.script) > 0 {
		next = f.script[0]
		f.script = f.script[1:]
	}
	f.mu.Unlock()

	if next.Delay > 0 {
		t := time.NewTimer(next.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return json.RawMessage(next.Body), nil
}

// Calls returns a copy of the requests seen so far.
func (f *FakeClient) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.calls...)
}
