package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	wsTypeState = "state"
	wsTypeError = "error"
	wsTypeMove  = "move"
	wsTypeAI    = "ai"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// wsUpgrade 只放行 websocket 握手，并且对局必须存在
func (h *Handler) wsUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if _, err := h.games.Get(c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.Next()
	}
}

type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) send(typ string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(wsMessage{Type: typ, Payload: payload})
}

// Stream pushes a snapshot after every move of the game. Clients may also
// send {"type":"move","payload":{"notation":"11-15"}} or {"type":"ai"}.
func (h *Handler) Stream(c *websocket.Conn) {
	id := c.Params("id")
	w := &wsConn{conn: c}

	updates, cancel, err := h.games.Subscribe(id)
	if err != nil {
		_ = w.send(wsTypeError, err.Error())
		return
	}
	defer cancel()

	snap, err := h.games.Get(id)
	if err != nil {
		_ = w.send(wsTypeError, err.Error())
		return
	}
	if err := w.send(wsTypeState, snapshotToResponse(snap)); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			mt, data, err := c.ReadMessage()
			if err != nil {
				return
			}
			if mt != websocket.TextMessage {
				continue
			}
			var msg wsMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = w.send(wsTypeError, "bad json")
				continue
			}
			if err := h.handleWSMessage(id, msg); err != nil {
				_ = w.send(wsTypeError, err.Error())
			}
		}
	}()

	for {
		select {
		case s, ok := <-updates:
			if !ok {
				return // 对局被删除
			}
			if err := w.send(wsTypeState, snapshotToResponse(s)); err != nil {
				log.Printf("ws %s: write: %v", id, err)
				return
			}
		case <-done:
			return
		}
	}
}

// 落子结果通过订阅推回去，这里只关心错误
func (h *Handler) handleWSMessage(id string, msg wsMessage) error {
	switch msg.Type {
	case wsTypeMove:
		var d MoveDTO
		if err := json.Unmarshal(msg.Payload, &d); err != nil {
			return err
		}
		cur, err := h.games.Get(id)
		if err != nil {
			return err
		}
		mv, err := dtoToMove(cur.Pos.Board.Size, d)
		if err != nil {
			return err
		}
		_, err = h.games.Play(id, mv)
		return err
	case wsTypeAI:
		_, _, err := h.games.AIMove(context.Background(), id)
		return err
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}
