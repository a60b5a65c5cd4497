package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"relo-assistant/internal/service"
	"relo-assistant/internal/store"
)

const (
	eventsWriteWait  = 10 * time.Second
	eventsPingPeriod = 30 * time.Second
)

// SessionHandler expone el dispatcher de cada sesion por HTTP.
type SessionHandler struct {
	logger   *zap.Logger
	sessions *service.SessionManager
	tokens   *service.SessionTokens
	upgrader websocket.Upgrader
}

// NewSessionHandler crea el handler. allowedOrigins limita el handshake del
// stream de eventos; vacio acepta cualquier origen.
func NewSessionHandler(
	logger *zap.Logger,
	sessions *service.SessionManager,
	tokens *service.SessionTokens,
	allowedOrigins []string,
) *SessionHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = true
		}
	}
	return &SessionHandler{
		logger:   logger,
		sessions: sessions,
		tokens:   tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				return origin == "" || origins[origin]
			},
		},
	}
}

type sessionResponse struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	State     store.Snapshot `json:"state"`
}

func toSessionResponse(s *service.Session) sessionResponse {
	return sessionResponse{ID: s.ID, CreatedAt: s.CreatedAt, State: s.Store.Snapshot()}
}

// CreateSession maneja POST /sessions.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	s := h.sessions.Create()
	token, err := h.tokens.Issue(s.ID)
	if err != nil {
		h.logger.Error("issue session token failed", zap.Error(err))
		_ = h.sessions.Close(s.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session":    toSessionResponse(s),
		"token":      token,
		"expires_in": int(h.tokens.TTL().Seconds()),
	})
}

// GetSession maneja GET /sessions/:id.
func (h *SessionHandler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": toSessionResponse(s)})
}

// DeleteSession maneja DELETE /sessions/:id. Cierra la sesion y revoca el token.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.sessions.Close(id); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.logger.Error("close session failed", zap.String("session_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not close session"})
		return
	}
	if token := c.GetString(sessionTokenKey); token != "" {
		if err := h.tokens.Revoke(token); err != nil {
			h.logger.Warn("revoke session token failed", zap.String("session_id", id), zap.Error(err))
		}
	}
	c.Status(http.StatusNoContent)
}

// PostIntent maneja POST /sessions/:id/intents.
func (h *SessionHandler) PostIntent(c *gin.Context) {
	var req struct {
		Intent  string          `json:"intent" binding:"required"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid intent request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}

	result := s.Dispatcher.Dispatch(c.Request.Context(), req.Intent, rawPayload(req.Payload))
	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"state":  s.Store.Snapshot(),
	})
}

// rawPayload acepta el payload como objeto JSON o como string con el JSON
// embebido (el formato que emiten los botones de las tarjetas).
func rawPayload(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal([]byte(trimmed), &s); err == nil {
			return s
		}
	}
	return trimmed
}

// PostMessage maneja POST /sessions/:id/messages.
func (h *SessionHandler) PostMessage(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}

	result := s.Dispatcher.Ask(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"state":  s.Store.Snapshot(),
	})
}

// ActivateThread maneja POST /sessions/:id/threads/:threadId/activate.
func (h *SessionHandler) ActivateThread(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Store.SwitchToThread(c.Param("threadId")); err != nil {
		if errors.Is(err, store.ErrThreadNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not activate thread"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": s.Store.Snapshot()})
}

// Events maneja GET /sessions/:id/events: reenvia los eventos del store por
// websocket hasta que la sesion se cierra o el cliente se desconecta.
func (h *SessionHandler) Events(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("session_id", s.ID), zap.Error(err))
		return
	}
	defer conn.Close()

	events, cancel := s.Store.Subscribe()
	defer cancel()

	// El cliente no manda nada util; leer solo sirve para detectar el cierre.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(eventsPingPeriod)
	defer ping.Stop()

	_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
	if err := conn.WriteJSON(gin.H{"type": "snapshot", "state": s.Store.Snapshot()}); err != nil {
		return
	}

	for {
		select {
		case <-gone:
			return
		case <-s.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
				time.Now().Add(eventsWriteWait))
			return
		case <-c.Request.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("websocket write failed", zap.String("session_id", s.ID), zap.Error(err))
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *SessionHandler) session(c *gin.Context) (*service.Session, bool) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}
