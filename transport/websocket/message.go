package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/feedback"
)

const writeWait = 10 * time.Second

const (
	actionNew   = "game:new"
	actionJoin  = "game:join"
	actionState = "game:state"
	actionTurn  = "game:turn"
	actionReset = "game:reset"
	actionLeave = "game:leave"
	actionError = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is used for requests and responses. Requests fill GameID, Row and
// Col; responses fill the rest.
type Payload struct {
	GameID string `json:"game_id,omitempty"`
	Row    *int   `json:"row,omitempty"`
	Col    *int   `json:"col,omitempty"`

	Game   *entity.Game       `json:"game,omitempty"`
	Result *entity.MoveResult `json:"result,omitempty"`
	Cue    feedback.Cue       `json:"cue,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// client serializes writes to one connection; gorilla allows a single writer.
type client struct {
	conn *websocket.Conn

	writeMutex sync.Mutex
}

func (that *client) send(action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
