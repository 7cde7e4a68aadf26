// Package handler exposes dashboard sessions over JSON HTTP and WebSocket.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"healthguard/internal/dashboard"
	"healthguard/internal/util/jsonutil"
)

const (
	SessionCookie = "hg_session"
	SessionHeader = "X-Session-ID"

	maxBodyBytes = 64 << 10
)

// SessionHandler serves one dashboard session per browser.
type SessionHandler struct {
	store     *dashboard.Store
	svc       *dashboard.Service
	log       *zap.Logger
	cookieTTL time.Duration
}

func NewSessionHandler(store *dashboard.Store, svc *dashboard.Service, log *zap.Logger, cookieTTL time.Duration) *SessionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	if cookieTTL <= 0 {
		cookieTTL = dashboard.DefaultSessionTTL
	}
	return &SessionHandler{store: store, svc: svc, log: log, cookieTTL: cookieTTL}
}

// session resolves the caller's session from the X-Session-ID header, then
// the cookie, creating a new one when neither names a live session.
func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) *dashboard.Session {
	id := strings.TrimSpace(r.Header.Get(SessionHeader))
	if id == "" {
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}
	}
	sess, created := h.store.GetOrCreate(id)
	if created {
		h.log.Debug("session created", zap.String("session", sess.ID()))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID(),
		Path:     "/",
		MaxAge:   int(h.cookieTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(SessionHeader, sess.ID())
	return sess
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = jsonutil.EncodeNoEscape(w, v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}
