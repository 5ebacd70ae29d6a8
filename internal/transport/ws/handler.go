package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"promptscore/internal/logging"
	"promptscore/internal/model"
	"promptscore/internal/service"
	"promptscore/internal/transport/rest/middleware"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 64
)

// Event types sent to clients
const (
	EventStage  = "stage"
	EventResult = "result"
	EventError  = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Analyzer runs the pipeline while reporting stage transitions
type Analyzer interface {
	AnalyzeObserved(ctx context.Context, prompt string, observe service.StageObserver) *model.ScoreResult
}

// Event is one server-to-client frame
type Event struct {
	Type   string                 `json:"type"`
	Stage  *service.StageEvent    `json:"stage,omitempty"`
	Result *model.AnalyzeResponse `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// Handler streams analyses over WebSocket connections
type Handler struct {
	analyzer Analyzer
	authSvc  *service.AuthService
	logger   *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(analyzer Analyzer, authSvc *service.AuthService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		analyzer: analyzer,
		authSvc:  authSvc,
		logger:   logger.Named("ws"),
	}
}

// connection is the state of one client socket
type connection struct {
	ws     *websocket.Conn
	send   chan Event
	ctx    context.Context
	cancel context.CancelFunc
}

// push queues an event unless the connection is going away
func (c *connection) push(ev Event) {
	select {
	case c.send <- ev:
	case <-c.ctx.Done():
	}
}

// AnalyzeWS handles GET /v1/ws/analyze
func (h *Handler) AnalyzeWS(w http.ResponseWriter, r *http.Request) {
	clientID := ""
	if h.authSvc != nil && h.authSvc.Enabled() {
		token := middleware.ExtractToken(r)
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		claims, err := h.authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		clientID = claims.ClientID
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade error", zap.Error(err))
		return
	}

	// The request context ends when this handler returns; the socket outlives it.
	ctx := logging.WithRequestID(context.Background(), logging.RequestID(r.Context()))
	if clientID != "" {
		ctx = logging.WithClientID(ctx, clientID)
	}
	ctx, cancel := context.WithCancel(ctx)
	conn := &connection{
		ws:     wsConn,
		send:   make(chan Event, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
	}

	h.logger.Info("client connected", zap.String("client_id", clientID), zap.String("remote", r.RemoteAddr))

	go h.writePump(conn)
	go h.readPump(conn)
}

func (h *Handler) readPump(conn *connection) {
	defer func() {
		conn.cancel()
		conn.ws.Close()
	}()

	conn.ws.SetReadLimit(maxMessageSize)
	conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		conn.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("WebSocket error", zap.Error(err))
			}
			return
		}

		var req model.AnalyzeRequest
		if err := json.Unmarshal(message, &req); err != nil {
			conn.push(Event{Type: EventError, Error: "invalid message"})
			continue
		}
		prompt := strings.TrimSpace(req.Prompt)
		if prompt == "" {
			conn.push(Event{Type: EventError, Error: "Please enter a prompt."})
			continue
		}

		result := h.analyzer.AnalyzeObserved(conn.ctx, prompt, func(e service.StageEvent) {
			stage := e
			conn.push(Event{Type: EventStage, Stage: &stage})
		})
		conn.push(Event{Type: EventResult, Result: model.NewAnalyzeResponse(result)})

		// Pongs are not processed while an analysis runs.
		conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (h *Handler) writePump(conn *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.cancel()
		conn.ws.Close()
	}()

	for {
		select {
		case ev := <-conn.send:
			conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.ws.WriteJSON(ev); err != nil {
				return
			}

		case <-ticker.C:
			conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-conn.ctx.Done():
			conn.ws.SetWriteDeadline(time.Now().Add(writeWait))
			conn.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
