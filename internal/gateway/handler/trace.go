package handler

import (
	"net/http"

	"healthguard/internal/dashboard"
)

type traceBody struct {
	Exchange *dashboard.Exchange `json:"exchange"`
	Failure  *dashboard.Failure  `json:"failure"`
	Kind     string              `json:"failure_kind,omitempty"`
}

// HandleTrace returns the last model exchange and failure of the session.
// It is only mounted in non-production environments.
func (h *SessionHandler) HandleTrace(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	var body traceBody
	if ex, ok := sess.LastExchange(); ok {
		body.Exchange = &ex
	}
	if f, ok := sess.LastFailure(); ok {
		body.Failure = &f
		body.Kind = f.Kind.String()
	}
	writeJSON(w, http.StatusOK, body)
}
