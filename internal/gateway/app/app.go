// Package app wires configuration, the model client, dashboard sessions and
// the HTTP server into one runnable process.
package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"healthguard/internal/analysis"
	"healthguard/internal/dashboard"
	"healthguard/internal/gateway/config"
	"healthguard/internal/gateway/handler"
	"healthguard/internal/gateway/server"
	"healthguard/internal/llm"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	cfg     *config.Config
	log     *zap.Logger
	client  llm.Client
	svc     *dashboard.Service
	store   *dashboard.Store
	handler http.Handler
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	client, err := NewLLMClient(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm client: %w", err)
	}

	analyzer := analysis.New(client,
		analysis.WithTemperature(cfg.LLM.Temperature),
		analysis.WithLogger(log.Named("analysis")),
	)
	store := dashboard.NewStore(cfg.Session.MaxEntries, cfg.Session.TTL)
	svc := dashboard.NewService(analyzer, log.Named("dashboard"))
	sessions := handler.NewSessionHandler(store, svc, log.Named("http"), cfg.Session.TTL)

	mux := server.NewMux(server.Routes{
		Sessions: sessions,
		LLMName:  client.Name(),
		Debug:    !strings.EqualFold(cfg.Env, "production"),
	}, log.Named("access"))

	return &App{
		cfg:     cfg,
		log:     log,
		client:  client,
		svc:     svc,
		store:   store,
		handler: mux,
	}, nil
}

func (a *App) Handler() http.Handler { return a.handler }

func (a *App) LLMName() string { return a.client.Name() }

// Run serves on the configured port until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.Port)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.cfg.Port, err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the server on ln, then shuts down gracefully once ctx is done:
// in-flight requests and analyses finish before the model client closes.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := server.New(ln.Addr().String(), a.handler, a.log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(ln)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down server")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	err := g.Wait()

	a.svc.Wait()
	if cerr := a.client.Close(); cerr != nil && err == nil {
		err = cerr
	}
	a.log.Info("server exited", zap.Int("sessions", a.store.Len()))
	return err
}
