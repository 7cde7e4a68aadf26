package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"healthguard/internal/dashboard"
)

const (
	streamWriteWait = 10 * time.Second
	streamPongWait  = 60 * time.Second
	streamPingEvery = (streamPongWait * 9) / 10
)

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type streamInbound struct {
	Type    string                  `json:"type"`
	Sensors *dashboard.SensorPatch  `json:"sensors,omitempty"`
	Context *dashboard.ContextPatch `json:"context,omitempty"`
}

type streamOutbound struct {
	Type       string          `json:"type"`
	View       *dashboard.View `json:"view,omitempty"`
	RequestSeq uint64          `json:"request_seq,omitempty"`
	Code       string          `json:"code,omitempty"`
	Message    string          `json:"message,omitempty"`
}

// HandleStream pushes a view on every session change and accepts the same
// mutations as the REST routes.
func (h *SessionHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	// The upgrade response is written by the websocket package, which only
	// sends the headers passed here.
	respHeader := http.Header{}
	for _, k := range []string{"Set-Cookie", SessionHeader} {
		if v := w.Header().Values(k); len(v) > 0 {
			respHeader[http.CanonicalHeaderKey(k)] = v
		}
	}
	conn, err := streamUpgrader.Upgrade(w, r, respHeader)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(streamPongWait)); err != nil {
		h.log.Debug("stream set read deadline failed", zap.Error(err))
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	writeCh := make(chan streamOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(streamPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	views := sess.Subscribe(ctx)
	go func() {
		for v := range views {
			pushStream(writeCh, streamOutbound{Type: "view", View: &v})
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			cancel()
			<-writerDone
			return
		}
		var in streamInbound
		if err := json.Unmarshal(data, &in); err != nil {
			pushStream(writeCh, streamOutbound{Type: "error", Code: "invalid_argument", Message: "invalid json message"})
			continue
		}
		h.handleStreamMessage(ctx, sess, in, writeCh)
	}
}

func (h *SessionHandler) handleStreamMessage(ctx context.Context, sess *dashboard.Session, in streamInbound, writeCh chan streamOutbound) {
	switch msgType := strings.ToLower(strings.TrimSpace(in.Type)); msgType {
	case "":
		pushStream(writeCh, streamOutbound{Type: "error", Code: "invalid_argument", Message: "type is required"})
	case "ping":
		pushStream(writeCh, streamOutbound{Type: "pong"})
	case "sensors":
		if in.Sensors == nil {
			pushStream(writeCh, streamOutbound{Type: "error", Code: "invalid_argument", Message: "sensors is required"})
			return
		}
		if _, err := sess.SetSensors(*in.Sensors); err != nil {
			pushStream(writeCh, streamOutbound{Type: "error", Code: "out_of_range", Message: err.Error()})
		}
	case "context":
		if in.Context == nil {
			pushStream(writeCh, streamOutbound{Type: "error", Code: "invalid_argument", Message: "context is required"})
			return
		}
		if _, err := sess.SetContext(*in.Context); err != nil {
			pushStream(writeCh, streamOutbound{Type: "error", Code: "unknown_option", Message: err.Error()})
		}
	case "analyze":
		t := h.svc.AnalyzeAsync(context.WithoutCancel(ctx), sess)
		pushStream(writeCh, streamOutbound{Type: "analysis_started", RequestSeq: t.Seq})
	case "reset":
		sess.Reset()
	default:
		pushStream(writeCh, streamOutbound{Type: "error", Code: "invalid_argument", Message: "unsupported type: " + msgType})
	}
}

// pushStream never blocks; when the buffer is full the oldest message is
// dropped.
func pushStream(writeCh chan streamOutbound, out streamOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
