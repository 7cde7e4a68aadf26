// Package analysis turns a sensor snapshot and user context into a typed
// wellness report by delegating to a schema-constrained LLM call.
package analysis

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"healthguard/internal/llm"
	"healthguard/internal/types/wellness"
)

// DefaultTemperature biases the model toward consistent, grounded output.
const DefaultTemperature float32 = 0.4

type Analyzer struct {
	client      llm.Client
	temperature float32
	log         *zap.Logger
}

type Option func(*Analyzer)

func WithTemperature(t float32) Option {
	return func(a *Analyzer) { a.temperature = t }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.log = l
		}
	}
}

func New(client llm.Client, opts ...Option) *Analyzer {
	a := &Analyzer{
		client:      client,
		temperature: DefaultTemperature,
		log:         zap.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Analyzer) ClientName() string { return a.client.Name() }

// Request performs exactly one round trip to the model. Errors are *Error
// with Kind RequestFailed, EmptyResponse or ParseError.
func (a *Analyzer) Request(ctx context.Context, s wellness.SensorSnapshot, c wellness.UserContext) (wellness.AnalysisResult, error) {
	req := llm.Request{
		Prompt:      BuildPrompt(s, c),
		Schema:      ResponseSchema(),
		Temperature: llm.Temperature(a.temperature),
	}
	raw, err := a.client.GenerateJSON(ctx, req)
	if err != nil {
		kind := KindRequestFailed
		if errors.Is(err, llm.ErrEmptyResponse) {
			kind = KindEmptyResponse
		}
		a.log.Debug("analysis call failed", zap.Stringer("kind", kind), zap.Error(err))
		return wellness.AnalysisResult{}, newError(kind, err)
	}
	res, err := Decode(raw)
	if err != nil {
		a.log.Debug("analysis payload rejected", zap.Stringer("kind", KindOf(err)), zap.Int("bytes", len(raw)), zap.Error(err))
		return wellness.AnalysisResult{}, err
	}
	return res, nil
}
