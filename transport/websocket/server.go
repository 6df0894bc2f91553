package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameManager interface {
	NewGame(ctx context.Context) (*entity.Game, error)
	Game(ctx context.Context, gameID string) (*entity.Game, error)
	Play(ctx context.Context, gameID string, row, col int) (*entity.Game, entity.MoveResult, error)
	Reset(ctx context.Context, gameID string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, c *client, payload Payload) error

type Server struct {
	logger   *slog.Logger
	games    gameManager
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	subscribersMutex sync.RWMutex
	subscribers      map[string]map[*client]struct{}
}

// New creates the server. An empty allowedOrigin accepts any origin.
func New(logger *slog.Logger, games gameManager, allowedOrigin string) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},

		subscribers: make(map[string]map[*client]struct{}),
	}

	server.handlers = map[string]handlerFunc{
		actionNew:   server.handleNewGame,
		actionJoin:  server.handleJoinGame,
		actionState: server.handleGameState,
		actionTurn:  server.handleGameTurn,
		actionReset: server.handleGameReset,
		actionLeave: server.handleGameLeave,
	}

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// BroadcastReset tells every subscriber of the game that its board was cleared
// without a request, e.g. by the auto-reset timer.
func (that *Server) BroadcastReset(game *entity.Game) {
	that.broadcast(game.ID, actionReset, Payload{Game: game, Cue: resetCue})
}

func (that *Server) serveWS(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{conn: conn}

	defer func() {
		that.unsubscribeAll(c)

		if err = conn.Close(); err != nil {
			log.Debug("failed to close connection", "error", err)
		}
	}()

	log.Info("WebSocket connection established")

	that.handleMessages(req.Context(), c)
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.sendError(c, actionError, "malformed message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(c, message.Action, "unknown action")
			continue
		}

		var payload Payload
		if len(message.Payload) > 0 {
			if err = json.Unmarshal(message.Payload, &payload); err != nil {
				that.sendError(c, message.Action, "malformed payload")
				continue
			}
		}

		if err = handler(ctx, c, payload); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) subscribe(gameID string, c *client) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	clients, ok := that.subscribers[gameID]
	if !ok {
		clients = make(map[*client]struct{})
		that.subscribers[gameID] = clients
	}

	clients[c] = struct{}{}
}

func (that *Server) unsubscribe(gameID string, c *client) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	delete(that.subscribers[gameID], c)

	if len(that.subscribers[gameID]) == 0 {
		delete(that.subscribers, gameID)
	}
}

func (that *Server) unsubscribeAll(c *client) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	for gameID, clients := range that.subscribers {
		delete(clients, c)

		if len(clients) == 0 {
			delete(that.subscribers, gameID)
		}
	}
}

func (that *Server) broadcast(gameID, action string, payload Payload) {
	log := that.logger.With("method", "broadcast", "gameID", gameID)

	that.subscribersMutex.RLock()
	clients := make([]*client, 0, len(that.subscribers[gameID]))
	for c := range that.subscribers[gameID] {
		clients = append(clients, c)
	}
	that.subscribersMutex.RUnlock()

	for _, c := range clients {
		if err := c.send(action, payload); err != nil {
			log.Error("failed to send game update", "error", err)
		}
	}
}

func (that *Server) sendError(c *client, action, reason string) {
	if err := c.send(action, Payload{Error: reason}); err != nil {
		that.logger.Error("failed to send error response", "error", err)
	}
}
