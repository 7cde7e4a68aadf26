package llm

import (
	"context"
	"encoding/json"
)

// PromptHook observes requests and raw responses for diagnostics.
type PromptHook interface {
	Before(ctx context.Context, tag string, req Request)
	After(ctx context.Context, tag string, raw json.RawMessage, err error)
}

type ctxKeyHook struct{}
type ctxKeyTag struct{}

// WithHook attaches a PromptHook to ctx; WithHooks middleware invokes it.
func WithHook(ctx context.Context, hook PromptHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

// WithTag labels calls made with ctx, e.g. "session/seq".
func WithTag(ctx context.Context, tag string) context.Context {
	return context.WithValue(ctx, ctxKeyTag{}, tag)
}

func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}

func TagFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyTag{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}
