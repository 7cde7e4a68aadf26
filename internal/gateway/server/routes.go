package server

import (
	"net/http"

	"go.uber.org/zap"

	"healthguard/internal/gateway/handler"
	"healthguard/internal/gateway/middleware"
)

type Routes struct {
	Sessions *handler.SessionHandler
	LLMName  string
	// Debug mounts the per-session model trace route.
	Debug bool
}

func NewMux(rt Routes, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handler.HealthHandler(rt.LLMName))
	mux.HandleFunc("GET /api/v1/options", handler.HandleOptions)

	s := rt.Sessions
	mux.HandleFunc("GET /api/v1/session", s.HandleGet)
	mux.HandleFunc("PATCH /api/v1/session/sensors", s.HandleSensors)
	mux.HandleFunc("PATCH /api/v1/session/context", s.HandleContext)
	mux.HandleFunc("GET /api/v1/session/history", s.HandleHistory)
	mux.HandleFunc("POST /api/v1/session/analyze", s.HandleAnalyze)
	mux.HandleFunc("POST /api/v1/session/reset", s.HandleReset)
	mux.HandleFunc("GET /api/v1/session/ws", s.HandleStream)

	if rt.Debug {
		mux.HandleFunc("GET /api/v1/session/trace", s.HandleTrace)
	}

	return middleware.CORS(middleware.AccessLog(log)(mux))
}
