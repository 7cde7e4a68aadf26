package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"healthguard/internal/dashboard"
	"healthguard/internal/types/wellness"
)

func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session(w, r).View())
}

func (h *SessionHandler) HandleSensors(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	var p dashboard.SensorPatch
	if err := decodeBody(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}
	v, err := sess.SetSensors(p)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *SessionHandler) HandleContext(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	var p dashboard.ContextPatch
	if err := decodeBody(w, r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body: "+err.Error())
		return
	}
	v, err := sess.SetContext(p)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *SessionHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session(w, r).History())
}

type analyzeAccepted struct {
	RequestSeq uint64 `json:"request_seq"`
}

// HandleAnalyze runs one analysis. The model call outlives a disconnecting
// client so the session still receives the outcome.
func (h *SessionHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	ctx := context.WithoutCancel(r.Context())

	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		t := h.svc.AnalyzeAsync(ctx, sess)
		writeJSON(w, http.StatusAccepted, analyzeAccepted{RequestSeq: t.Seq})
		return
	}
	v, err := h.svc.Analyze(ctx, sess)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, v)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *SessionHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session(w, r).Reset())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, wellness.ErrOutOfRange), errors.Is(err, wellness.ErrUnknownOption):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
