package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"relo-assistant/internal/domain"
	"relo-assistant/internal/llm"
	"relo-assistant/internal/service"
	"relo-assistant/internal/store"
)

type apiEnv struct {
	router   *gin.Engine
	sessions *service.SessionManager
	tokens   *service.SessionTokens
	creds    *llm.Credentials
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	sessions := service.NewSessionManager(service.SessionManagerConfig{
		Logger:       logger,
		NewScheduler: func() service.Scheduler { return service.NewManualScheduler() },
	})
	t.Cleanup(sessions.CloseAll)
	tokens := service.NewSessionTokens("secret", time.Hour)
	creds := llm.NewCredentials("", "")
	limiter := service.NewMemoryRateLimiter(time.Minute, 100)

	r := NewRouter(
		logger,
		NewSessionHandler(logger, sessions, tokens, nil),
		NewSettingsHandler(logger, creds, sessions),
		tokens,
		limiter,
	)
	return &apiEnv{router: r, sessions: sessions, tokens: tokens, creds: creds}
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type createdSession struct {
	Session struct {
		ID    string         `json:"id"`
		State store.Snapshot `json:"state"`
	} `json:"session"`
	Token string `json:"token"`
}

func (e *apiEnv) createSession(t *testing.T) createdSession {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/sessions", "", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var out createdSession
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return out
}

type dispatchResponse struct {
	Result service.DispatchResult `json:"result"`
	State  store.Snapshot         `json:"state"`
}

func TestSessionHandler_Lifecycle(t *testing.T) {
	env := newAPIEnv(t)
	created := env.createSession(t)

	if created.Token == "" || created.Session.ID == "" {
		t.Fatalf("expected id and token, got %+v", created)
	}
	if created.Session.State.ActiveThreadID != domain.GeneralThreadID {
		t.Fatalf("expected general thread active, got %q", created.Session.State.ActiveThreadID)
	}

	base := "/sessions/" + created.Session.ID

	t.Run("obtener snapshot", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base, created.Token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("sin token", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, base, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("dispatch abre el hilo del servicio", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, base+"/intents", created.Token, gin.H{"intent": "pets"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var out dispatchResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out.Result.Service != domain.ServicePets || out.Result.ThreadID == domain.GeneralThreadID {
			t.Fatalf("expected pets thread, got %+v", out.Result)
		}
		if out.State.ActiveThreadID != out.Result.ThreadID {
			t.Fatalf("expected pets thread active, got %q", out.State.ActiveThreadID)
		}
	})

	t.Run("volver al hilo general", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, base+"/threads/"+domain.GeneralThreadID+"/activate", created.Token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		rec = env.do(t, http.MethodPost, base+"/threads/missing/activate", created.Token, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("intent sin nombre", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, base+"/intents", created.Token, gin.H{"payload": gin.H{}})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("mensaje libre sin credenciales", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, base+"/messages", created.Token, gin.H{"text": "hello there"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var out dispatchResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(out.State.Messages) == 0 {
			t.Fatalf("expected the user text and a visible reply")
		}
	})

	t.Run("cerrar revoca el token", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, base, created.Token, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		rec = env.do(t, http.MethodGet, base, created.Token, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 after close, got %d", rec.Code)
		}
	})
}

func TestRawPayload(t *testing.T) {
	cases := map[string]string{
		``:                      "",
		`null`:                  "",
		`{"amount":10}`:         `{"amount":10}`,
		`"{\"amount\":10}"`:     `{"amount":10}`,
		`"{'property':'Loft'}"`: `{'property':'Loft'}`,
	}
	for in, want := range cases {
		if got := rawPayload(json.RawMessage(in)); got != want {
			t.Fatalf("rawPayload(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSessionHandler_Events(t *testing.T) {
	env := newAPIEnv(t)
	created := env.createSession(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + created.Session.ID + "/events?token=" + created.Token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first struct {
		Type string `json:"type"`
	}
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if first.Type != "snapshot" {
		t.Fatalf("expected snapshot first, got %q", first.Type)
	}

	rec := env.do(t, http.MethodPost, "/sessions/"+created.Session.ID+"/intents", created.Token, gin.H{"intent": "pets"})
	if rec.Code != http.StatusOK {
		t.Fatalf("dispatch: %d", rec.Code)
	}

	var ev store.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Type == "" {
		t.Fatalf("expected a typed store event")
	}

	if err := env.sessions.Close(created.Session.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func TestSettingsHandler(t *testing.T) {
	env := newAPIEnv(t)

	t.Run("health sin credenciales", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/health", "", nil)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"llm_configured":false`) {
			t.Fatalf("unexpected health: %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("actualizar credencial", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/settings/llm", "", gin.H{"api_key": "sk-test", "model": "gpt-4o"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		key, model := env.creds.Get()
		if key != "sk-test" || model != "gpt-4o" {
			t.Fatalf("credentials not updated: %q %q", key, model)
		}
	})

	t.Run("solo modelo", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/settings/llm", "", gin.H{"model": "gpt-4o-mini"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		key, model := env.creds.Get()
		if key != "sk-test" || model != "gpt-4o-mini" {
			t.Fatalf("expected key kept, got %q %q", key, model)
		}
	})

	t.Run("modelo desconocido", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/settings/llm", "", gin.H{"model": "mystery"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("listar modelos", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/settings/models", "", nil)
		var out struct {
			Models  []llm.ModelInfo `json:"models"`
			Current string          `json:"current"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(out.Models) != len(llm.AvailableModels) || out.Current != "gpt-4o-mini" {
			t.Fatalf("unexpected models response: %+v", out)
		}
	})
}
