package llm

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Middleware decorates a Client with a cross-cutting concern.
type Middleware func(Client) Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Rate limiting --------

// RateLimit throttles calls to rps per second with the given burst.
// If rps <= 0 the middleware passes calls straight through.
func RateLimit(rps float64, burst int) Middleware {
	return func(next Client) Client {
		return &rateLimited{next: next, rl: newRPSLimiter(rps, burst)}
	}
}

type rateLimited struct {
	next Client
	rl   *rpsLimiter
	once sync.Once
}

func (c *rateLimited) Name() string { return c.next.Name() }

func (c *rateLimited) Close() error {
	c.once.Do(c.rl.Stop)
	return c.next.Close()
}

func (c *rateLimited) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return nil, err
	}
	return c.next.GenerateJSON(ctx, req)
}

// -------- Logging --------

// WithLogging traces request size, latency and failures. A nil logger
// disables tracing.
func WithLogging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next Client) Client {
		return &logging{next: next, log: logger.With(zap.String("llm", next.Name()))}
	}
}

type logging struct {
	next Client
	log  *zap.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	fields := []zap.Field{
		zap.String("tag", TagFrom(ctx)),
		zap.Int("prompt_bytes", len(req.Prompt)),
		zap.Bool("schema", req.Schema != nil),
	}
	l.log.Debug("llm request", fields...)
	start := time.Now()
	raw, err := l.next.GenerateJSON(ctx, req)
	fields = append(fields, zap.Duration("latency", time.Since(start)))
	if err != nil {
		l.log.Warn("llm error", append(fields, zap.Error(err))...)
		return raw, err
	}
	l.log.Debug("llm response", append(fields, zap.Int("response_bytes", len(raw)))...)
	return raw, nil
}

// -------- Hooks --------

// WithHooks calls the PromptHook stored in ctx around each request.
// Without a hook in ctx it is a no-op.
func WithHooks() Middleware {
	return func(next Client) Client {
		return &hooked{next: next}
	}
}

type hooked struct{ next Client }

func (h *hooked) Name() string { return h.next.Name() }
func (h *hooked) Close() error { return h.next.Close() }

func (h *hooked) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	hook := HookFrom(ctx)
	if hook != nil {
		hook.Before(ctx, TagFrom(ctx), req)
	}
	raw, err := h.next.GenerateJSON(ctx, req)
	if hook != nil {
		hook.After(ctx, TagFrom(ctx), raw, err)
	}
	return raw, err
}
