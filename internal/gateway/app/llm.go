package app

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"healthguard/internal/gateway/config"
	"healthguard/internal/llm"
)

var errNoAPIKey = errors.New("GEMINI_API_KEY is not set")

// NewLLMClient picks the model provider and wraps it with the middleware
// chain. A gemini provider without credentials falls back to a client that
// fails every call, so the dashboard still serves and reports the failure.
func NewLLMClient(ctx context.Context, cfg *config.Config, log *zap.Logger) (llm.Client, error) {
	var base llm.Client
	switch cfg.LLM.Provider {
	case config.ProviderFake:
		base = llm.NewFakeClient()
		log.Info("llm provider: offline fake")
	default:
		if strings.TrimSpace(cfg.LLM.APIKey) == "" {
			log.Warn("llm provider unavailable", zap.Error(errNoAPIKey))
			base = llm.NewUnavailableClient(errNoAPIKey)
			break
		}
		g, err := llm.NewGeminiClient(ctx, cfg.LLM.APIKey, cfg.LLM.Model, llm.WithBaseURL(cfg.LLM.BaseURL))
		if err != nil {
			return nil, err
		}
		base = g
		log.Info("llm provider: gemini", zap.String("model", cfg.LLM.Model))
	}
	return llm.Wrap(base,
		llm.RateLimit(cfg.LLM.RPS, cfg.LLM.Burst),
		llm.WithLogging(log),
		llm.WithHooks(),
	), nil
}
