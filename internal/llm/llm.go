package llm

import (
	"context"
	"encoding/json"
	"errors"

	genai "google.golang.org/genai"
)

var (
	// ErrEmptyResponse means the provider answered but produced no text.
	ErrEmptyResponse = errors.New("llm: empty response")
	// ErrRequest covers transport, credential and provider-side failures.
	ErrRequest = errors.New("llm: request failed")
)

// Request is one schema-constrained completion call.
type Request struct {
	Prompt string
	// Schema is sent as a structured-output hint; providers may ignore it.
	Schema      *genai.Schema
	Temperature *float32
}

// Client is the capability the analysis adapter talks to.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error)
	Close() error
}

// Temperature is a convenience for building Request.Temperature.
func Temperature(v float32) *float32 { return &v }
