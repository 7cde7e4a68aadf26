// Package dashboard holds per-session wellness dashboard state and drives
// analysis requests against it.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"healthguard/internal/analysis"
	"healthguard/internal/llm"
	"healthguard/internal/types/wellness"
)

// Analyzer performs one analysis round trip.
type Analyzer interface {
	Request(ctx context.Context, s wellness.SensorSnapshot, c wellness.UserContext) (wellness.AnalysisResult, error)
}

type Service struct {
	analyzer Analyzer
	log      *zap.Logger
	wg       sync.WaitGroup
}

func NewService(a Analyzer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{analyzer: a, log: log}
}

// Analyze runs an analysis for sess and waits for it. The returned view
// reflects the session after resolution; the error is the analysis error,
// if any, even when a newer request superseded this one.
func (s *Service) Analyze(ctx context.Context, sess *Session) (View, error) {
	t := sess.BeginAnalysis()
	err := s.run(ctx, sess, t)
	return sess.View(), err
}

// AnalyzeAsync starts an analysis and returns immediately. The request is
// detached from ctx cancellation; its outcome lands in the session.
func (s *Service) AnalyzeAsync(ctx context.Context, sess *Session) Ticket {
	t := sess.BeginAnalysis()
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.run(ctx, sess, t)
	}()
	return t
}

// Wait blocks until every in-flight async analysis has resolved.
func (s *Service) Wait() { s.wg.Wait() }

func (s *Service) run(ctx context.Context, sess *Session, t Ticket) error {
	tag := fmt.Sprintf("%s/%d", sess.ID(), t.Seq)
	ctx = llm.WithTag(ctx, tag)
	ctx = llm.WithHook(ctx, &exchangeRecorder{sess: sess, seq: t.Seq})

	res, err := s.analyzer.Request(ctx, t.Sensors, t.Context)
	applied := sess.Resolve(t, res, err)

	fields := []zap.Field{
		zap.String("session", sess.ID()),
		zap.Uint64("seq", t.Seq),
		zap.Bool("applied", applied),
	}
	if err != nil {
		s.log.Warn("analysis failed", append(fields, zap.Stringer("kind", analysis.KindOf(err)), zap.Error(err))...)
		return err
	}
	s.log.Info("analysis completed", append(fields, zap.String("risk_level", res.RiskLevel.String()))...)
	return nil
}

// exchangeRecorder captures the last prompt and raw reply per session.
type exchangeRecorder struct {
	sess *Session
	seq  uint64

	mu     sync.Mutex
	prompt string
}

func (r *exchangeRecorder) Before(_ context.Context, _ string, req llm.Request) {
	r.mu.Lock()
	r.prompt = req.Prompt
	r.mu.Unlock()
}

func (r *exchangeRecorder) After(_ context.Context, _ string, raw json.RawMessage, err error) {
	r.mu.Lock()
	e := Exchange{Seq: r.seq, Prompt: r.prompt, Raw: string(raw)}
	r.mu.Unlock()
	if err != nil {
		e.Err = err.Error()
	}
	r.sess.recordExchange(e)
}
