package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vistoria-app/vistoria/internal/apperr"
	"github.com/vistoria-app/vistoria/internal/inspection"
)

// Pipeline runs a report job over a folder of saved images.
type Pipeline interface {
	Run(ctx context.Context, req inspection.Request) (*inspection.Result, error)
}

type Handler struct {
	pipeline       Pipeline
	uploadDir      string
	maxUploadBytes int64
	now            func() time.Time
}

func New(pipeline Pipeline, uploadDir string, maxUploadBytes int64) *Handler {
	return &Handler{
		pipeline:       pipeline,
		uploadDir:      uploadDir,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

// HandleHealthcheck answers load balancer probes.
func (h *Handler) HandleHealthcheck(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// writeError renders err as {"error": ..., "details": ...}. Errors without a
// kind are logged and reported with a generic message.
func (h *Handler) writeError(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Wrap(apperr.KindInternal, "Erro interno ao gerar o relatório", err)
	}

	status := appErr.HTTPStatus()
	log := loggerFrom(c)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "status", status, "err", err)
	} else {
		log.Warn("Request rejected", "status", status, "err", err)
	}

	body := gin.H{"error": appErr.Message}
	if status >= http.StatusInternalServerError {
		body["error"] = "Erro interno ao gerar o relatório"
	}
	if appErr.Details != nil {
		body["details"] = appErr.Details
	}
	c.AbortWithStatusJSON(status, body)
}

func loggerFrom(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if log, ok := v.(*slog.Logger); ok {
			return log
		}
	}
	return slog.Default()
}
