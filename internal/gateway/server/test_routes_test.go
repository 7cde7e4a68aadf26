package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"healthguard/internal/analysis"
	"healthguard/internal/dashboard"
	"healthguard/internal/gateway/handler"
	"healthguard/internal/history"
	"healthguard/internal/llm"
)

type testEnv struct {
	srv  *httptest.Server
	fake *llm.FakeClient
	svc  *dashboard.Service
}

func newTestEnv(t *testing.T, debug bool) *testEnv {
	t.Helper()
	fake := llm.NewFakeClient()
	client := llm.Wrap(fake, llm.WithHooks())
	store := dashboard.NewStore(16, time.Minute, dashboard.WithGenerator(func() *history.Generator {
		return history.New()
	}))
	svc := dashboard.NewService(analysis.New(client), zap.NewNop())
	sessions := handler.NewSessionHandler(store, svc, zap.NewNop(), time.Minute)
	mux := NewMux(Routes{Sessions: sessions, LLMName: client.Name(), Debug: debug}, zap.NewNop())
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		svc.Wait()
		srv.Close()
	})
	return &testEnv{srv: srv, fake: fake, svc: svc}
}

func (e *testEnv) do(t *testing.T, method, path, sid, body string) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	if sid != "" {
		req.Header.Set(handler.SessionHeader, sid)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(bytes.TrimSpace(raw)) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func (e *testEnv) newSession(t *testing.T) string {
	t.Helper()
	resp, _ := e.do(t, http.MethodGet, "/api/v1/session", "", "")
	sid := resp.Header.Get(handler.SessionHeader)
	require.NotEmpty(t, sid)
	return sid
}

func TestHealthAndOptions(t *testing.T) {
	env := newTestEnv(t, false)

	resp, body := env.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "FakeLLM", body["llm"])

	resp, body = env.do(t, http.MethodGet, "/api/v1/options", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["lifestyles"], 4)
	assert.Len(t, body["diets"], 5)
	assert.Equal(t, []any{"Low", "Medium", "High"}, body["risk_levels"])
	hr := body["bounds"].(map[string]any)["heartRate"].(map[string]any)
	assert.Equal(t, 40.0, hr["min"])
	assert.Equal(t, 180.0, hr["max"])
}

func TestGetSessionSetsCookieAndDefaults(t *testing.T) {
	env := newTestEnv(t, false)
	resp, body := env.do(t, http.MethodGet, "/api/v1/session", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == handler.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, cookie.Value, body["id"])
	assert.Nil(t, body["result"])
	assert.Equal(t, false, body["analyzing"])
	assert.Len(t, body["history"], history.Points)
	assert.Equal(t, 72.0, body["sensors"].(map[string]any)["heartRate"])

	resp, again := env.do(t, http.MethodGet, "/api/v1/session", cookie.Value, "")
	assert.Equal(t, cookie.Value, resp.Header.Get(handler.SessionHeader))
	assert.Equal(t, body["id"], again["id"])
}

func TestPatchSensorsAndContext(t *testing.T) {
	env := newTestEnv(t, false)
	sid := env.newSession(t)

	resp, body := env.do(t, http.MethodPatch, "/api/v1/session/sensors", sid, `{"heartRate":130,"sleepHours":5.5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sensors := body["sensors"].(map[string]any)
	assert.Equal(t, 130.0, sensors["heartRate"])
	assert.Equal(t, 5.5, sensors["sleepHours"])

	resp, body = env.do(t, http.MethodPatch, "/api/v1/session/sensors", sid, `{"bloodOxygen":20}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "bloodOxygen")

	resp, _ = env.do(t, http.MethodPatch, "/api/v1/session/sensors", sid, `{"pulse":80}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.do(t, http.MethodPatch, "/api/v1/session/context", sid, `{"symptoms":"headache","diet":"High Sugar / Processed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ctx := body["context"].(map[string]any)
	assert.Equal(t, "headache", ctx["symptoms"])
	assert.Equal(t, "High Sugar", ctx["diet"])

	resp, _ = env.do(t, http.MethodPatch, "/api/v1/session/context", sid, `{"lifestyle":"Couch"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/session/history", sid, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAnalyzeSync(t *testing.T) {
	env := newTestEnv(t, true)
	sid := env.newSession(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/session/analyze", sid, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := body["result"].(map[string]any)
	assert.Equal(t, "Low", result["risk_level"])
	assert.Equal(t, false, body["analyzing"])
	require.Len(t, env.fake.Calls(), 1)
	assert.Contains(t, env.fake.Calls()[0].Prompt, "Heart Rate: 72 bpm")

	env.fake.SetFallback(llm.FakeResponse{Err: llm.ErrRequest})
	resp, body = env.do(t, http.MethodPost, "/api/v1/session/analyze", sid, "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, dashboard.GenericErrorMessage, body["error"])
	assert.NotNil(t, body["result"], "previous result is kept")

	resp, body = env.do(t, http.MethodGet, "/api/v1/session/trace", sid, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "RequestFailed", body["failure_kind"])
	assert.NotEmpty(t, body["exchange"].(map[string]any)["prompt"])
}

func TestAnalyzeAsync(t *testing.T) {
	env := newTestEnv(t, false)
	sid := env.newSession(t)
	env.fake.SetFallback(llm.FakeResponse{Body: llm.DefaultFakeBody, Delay: 20 * time.Millisecond})

	resp, body := env.do(t, http.MethodPost, "/api/v1/session/analyze?async=true", sid, "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, 1.0, body["request_seq"])

	require.Eventually(t, func() bool {
		_, v := env.do(t, http.MethodGet, "/api/v1/session", sid, "")
		return v["analyzing"] == false && v["result"] != nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestResetAndRouting(t *testing.T) {
	env := newTestEnv(t, false)
	sid := env.newSession(t)
	env.do(t, http.MethodPatch, "/api/v1/session/sensors", sid, `{"stressLevel":9}`)

	resp, body := env.do(t, http.MethodPost, "/api/v1/session/reset", sid, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3.0, body["sensors"].(map[string]any)["stressLevel"])

	resp, _ = env.do(t, http.MethodGet, "/api/v1/session/analyze", sid, "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/v1/session/trace", sid, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodOptions, "/api/v1/session/sensors", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func readView(t *testing.T, conn *websocket.Conn, match func(map[string]any) bool) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func TestStream(t *testing.T) {
	env := newTestEnv(t, false)
	sid := env.newSession(t)

	url := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/v1/session/ws"
	hdr := http.Header{}
	hdr.Set(handler.SessionHeader, sid)
	conn, _, err := websocket.DefaultDialer.Dial(url, hdr)
	require.NoError(t, err)
	defer conn.Close()

	first := readView(t, conn, func(m map[string]any) bool { return m["type"] == "view" })
	assert.Equal(t, sid, first["view"].(map[string]any)["id"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "sensors", "sensors": map[string]any{"heartRate": 101}}))
	readView(t, conn, func(m map[string]any) bool {
		if m["type"] != "view" {
			return false
		}
		return m["view"].(map[string]any)["sensors"].(map[string]any)["heartRate"] == 101.0
	})

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping"}))
	readView(t, conn, func(m map[string]any) bool { return m["type"] == "pong" })

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "teleport"}))
	errMsg := readView(t, conn, func(m map[string]any) bool { return m["type"] == "error" })
	assert.Contains(t, errMsg["message"], "unsupported type")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "analyze"}))
	readView(t, conn, func(m map[string]any) bool {
		if m["type"] != "view" {
			return false
		}
		v := m["view"].(map[string]any)
		return v["analyzing"] == false && v["result"] != nil
	})
}

func TestStreamNewSessionGetsCookie(t *testing.T) {
	env := newTestEnv(t, false)

	url := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/v1/session/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	sid := resp.Header.Get(handler.SessionHeader)
	require.NotEmpty(t, sid)
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == handler.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, sid, cookie.Value)

	first := readView(t, conn, func(m map[string]any) bool { return m["type"] == "view" })
	assert.Equal(t, sid, first["view"].(map[string]any)["id"])
}
