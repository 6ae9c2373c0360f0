package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// wsMessage is the envelope pushed to websocket clients.
type wsMessage struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

const messageTypeTelemetry = "telemetry.update"

// telemetryHub fans new telemetry records out to connected websocket clients.
// Slow clients are dropped-from rather than allowed to stall the stepper: a
// full send buffer skips that client for the message.
type telemetryHub struct {
	mu      sync.RWMutex
	clients map[string]chan wsMessage
	msgs    chan wsMessage
}

func newTelemetryHub() *telemetryHub {
	return &telemetryHub{
		clients: make(map[string]chan wsMessage),
		msgs:    make(chan wsMessage, 256),
	}
}

func (h *telemetryHub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, ch := range h.clients {
				close(ch)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		case msg := <-h.msgs:
			h.mu.RLock()
			for id, ch := range h.clients {
				select {
				case ch <- msg:
				default:
					logrus.Warnf("ws: client %s send buffer full, dropping message", id)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// broadcast queues a payload for all clients. Never blocks the caller.
func (h *telemetryHub) broadcast(payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		logrus.Errorf("ws: marshal broadcast payload: %v", err)
		return
	}
	msg := wsMessage{Type: messageTypeTelemetry, Payload: raw, Timestamp: time.Now().UTC()}
	select {
	case h.msgs <- msg:
	default:
		logrus.Warn("ws: broadcast queue full, dropping message")
	}
}

func (h *telemetryHub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		logrus.Warnf("ws: accept: %v", err)
		return
	}

	id := uuid.NewString()
	send := make(chan wsMessage, 64)

	h.mu.Lock()
	h.clients[id] = send
	h.mu.Unlock()
	wsClientsActive.Inc()
	logrus.Infof("ws: client %s connected", id)

	defer func() {
		h.mu.Lock()
		if _, ok := h.clients[id]; ok {
			close(send)
			delete(h.clients, id)
		}
		h.mu.Unlock()
		wsClientsActive.Dec()
		conn.Close(websocket.StatusNormalClosure, "")
		logrus.Infof("ws: client %s disconnected", id)
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, conn, msg)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logrus.Warnf("http: encode response: %v", err)
		}
	}
}
