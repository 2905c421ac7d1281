package api

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	resdto "offer-compare/internal/handler/dto/response"
	"offer-compare/internal/handler/httperr"
	"offer-compare/internal/handler/middleware"
	"offer-compare/internal/pkg/config"
	"offer-compare/internal/usecase/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const streamWriteTimeout = 10 * time.Second

// StreamHandler pushes every snapshot of a session over a websocket.
type StreamHandler struct {
	manager  *session.Manager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewStreamHandler(manager *session.Manager, cors config.CORSConfig, logger *slog.Logger) *StreamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	allowed := slices.Clone(cors.AllowOrigins)
	return &StreamHandler{
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
			},
		},
		logger: logger,
	}
}

// @Summary Stream snapshots
// @Description Websocket; one JSON snapshot message per progress update. Closes when the session ends.
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 101 "Switching Protocols"
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /sessions/{id}/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid session id", nil)
		return
	}
	sess, err := h.manager.Get(id)
	if err != nil {
		abortWithSessionError(c, err)
		return
	}
	middleware.SetSessionID(c, id.String())

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "session_id", id, "error", err)
		return
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// incoming messages are ignored; a read error means the client went away
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.Info("snapshot stream opened", "session_id", id)
	updates := sess.Watch(ctx)
	for snap := range updates {
		_ = ws.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := ws.WriteJSON(resdto.FromSnapshot(snap)); err != nil {
			h.logger.Debug("snapshot stream write failed", "session_id", id, "error", err)
			cancel()
			break
		}
	}
	// drain so the watcher goroutine can close the channel
	for range updates {
	}

	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	h.logger.Info("snapshot stream closed", "session_id", id)
}
