package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"relo-assistant/internal/llm"
)

// SettingsHandler administra la credencial del LLM en caliente.
type SettingsHandler struct {
	logger   *zap.Logger
	creds    *llm.Credentials
	sessions interface{ Len() int }
}

func NewSettingsHandler(logger *zap.Logger, creds *llm.Credentials, sessions interface{ Len() int }) *SettingsHandler {
	return &SettingsHandler{logger: logger, creds: creds, sessions: sessions}
}

// UpdateLLM maneja PUT /settings/llm. Un api_key vacio borra la credencial y
// deja el gateway en modo no configurado.
func (h *SettingsHandler) UpdateLLM(c *gin.Context) {
	var req struct {
		APIKey *string `json:"api_key"`
		Model  string  `json:"model"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid llm settings request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	model := strings.TrimSpace(req.Model)
	if model != "" && !llm.KnownModel(model) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown model"})
		return
	}

	if req.APIKey != nil {
		h.creds.Set(*req.APIKey, model)
	} else {
		h.creds.SetModel(model)
	}
	_, current := h.creds.Get()
	h.logger.Info("llm settings updated", zap.String("model", current), zap.Bool("configured", h.creds.Configured()))

	c.JSON(http.StatusOK, gin.H{
		"model":      current,
		"configured": h.creds.Configured(),
	})
}

// ListModels maneja GET /settings/models.
func (h *SettingsHandler) ListModels(c *gin.Context) {
	_, current := h.creds.Get()
	c.JSON(http.StatusOK, gin.H{
		"models":  llm.AvailableModels,
		"current": current,
	})
}

// Health maneja GET /health.
func (h *SettingsHandler) Health(c *gin.Context) {
	resp := gin.H{
		"status":         "ok",
		"llm_configured": h.creds.Configured(),
	}
	if h.sessions != nil {
		resp["sessions"] = h.sessions.Len()
	}
	c.JSON(http.StatusOK, resp)
}
