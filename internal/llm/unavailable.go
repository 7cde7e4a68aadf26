package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// UnavailableClient stands in when no provider could be configured, e.g. a
// missing API key. Every call fails with ErrRequest.
type UnavailableClient struct {
	reason error
}

func NewUnavailableClient(reason error) *UnavailableClient {
	return &UnavailableClient{reason: reason}
}

func (u *UnavailableClient) Name() string { return "Unavailable" }
func (u *UnavailableClient) Close() error { return nil }

func (u *UnavailableClient) GenerateJSON(context.Context, Request) (json.RawMessage, error) {
	if u.reason == nil {
		return nil, fmt.Errorf("%w: no llm provider configured", ErrRequest)
	}
	return nil, fmt.Errorf("%w: %w", ErrRequest, u.reason)
}
