package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/statuscore-dev/statuscore/internal/types"
)

var (
	tenantClients   = make(map[string]map[*websocket.Conn]bool)
	tenantClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastRefresh tells every live dashboard of the tenant to refetch
// its monitoring views.
func BroadcastRefresh(tenantID string) {
	tenantClientsMu.RLock()
	clients, exists := tenantClients[tenantID]
	if !exists || len(clients) == 0 {
		tenantClientsMu.RUnlock()
		return
	}

	// Copy the connections so the lock is not held while writing.
	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	tenantClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":      "refresh",
			"message":   "Monitoring data updated",
			"tenant_id": tenantID,
		})

		if err != nil {
			tenantClientsMu.Lock()
			if clients, exists := tenantClients[tenantID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(tenantClients, tenantID)
				}
			}
			tenantClientsMu.Unlock()
			conn.Close()
		}
	}
}

// WebSocket upgrades the request into the tenant's live refresh feed.
func (h *Handler) WebSocket(ctx *gin.Context) {
	tenant, ok := h.tenant(ctx)
	if !ok {
		return
	}

	tenantID := tenant.TenantID

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.logger.Error("failed to set initial read deadline", zap.Error(err))
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	tenantClientsMu.Lock()
	if tenantClients[tenantID] == nil {
		tenantClients[tenantID] = make(map[*websocket.Conn]bool)
	}
	tenantClients[tenantID][conn] = true
	tenantClientsMu.Unlock()

	defer func() {
		tenantClientsMu.Lock()

		if clients, exists := tenantClients[tenantID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(tenantClients, tenantID)
			}
		}

		tenantClientsMu.Unlock()
		conn.Close()

		h.logger.Info("websocket connection closed", zap.String("tenant_id", tenantID))
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		h.logger.Error("failed to set write deadline for welcome message", zap.Error(err))
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":      "connected",
		"message":   "WebSocket connection established",
		"tenant_id": tenantID,
	})

	if err != nil {
		h.logger.Error("failed to send welcome message", zap.Error(err))
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			break
		}

		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket error",
					zap.String("tenant_id", tenantID),
					zap.Error(err))
			}
			break
		}
	}
}
