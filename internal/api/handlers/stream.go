package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/krxusd/internal/realtime"
	"github.com/wonny/krxusd/pkg/logger"
)

// Timing
const (
	pushInterval = 5 * time.Second
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second

	maxStreamCodes = 20
)

// StreamHandler pushes live converted quotes over a websocket
// ⭐ SSOT: 실시간 시세 스트리밍은 이 핸들러에서만
type StreamHandler struct {
	cache    *realtime.QuoteCache
	poller   *realtime.Poller
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(cache *realtime.QuoteCache, poller *realtime.Poller, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		cache:  cache,
		poller: poller,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: log,
	}
}

// Stream upgrades the connection and pushes tracked quotes periodically
// GET /ws/quotes?codes=005930,000660
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	codes := splitCodes(r.URL.Query().Get("codes"))
	if len(codes) == 0 {
		respondError(w, http.StatusBadRequest, "query parameter 'codes' is required")
		return
	}
	if len(codes) > maxStreamCodes {
		respondError(w, http.StatusBadRequest, "too many codes (max 20)")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	h.poller.Track(codes...)
	defer h.poller.Untrack(codes...)

	h.logger.WithFields(map[string]interface{}{
		"codes":  codes,
		"remote": r.RemoteAddr,
	}).Info("Quote stream opened")

	// Reader goroutine: consume control frames, detect close
	done := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pushTicker := time.NewTicker(pushInterval)
	defer pushTicker.Stop()
	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-done:
			h.logger.WithField("remote", r.RemoteAddr).Info("Quote stream closed")
			return

		case <-pushTicker.C:
			ticks := h.cache.GetMany(codes)
			if len(ticks) == 0 {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(ticks); err != nil {
				h.logger.WithError(err).Debug("Quote push failed")
				return
			}

		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// splitCodes parses a comma-separated code list, dropping blanks
func splitCodes(raw string) []string {
	var codes []string
	for _, part := range strings.Split(raw, ",") {
		if code := strings.TrimSpace(part); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
