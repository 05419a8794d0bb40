package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/pianoparty/server/internal/service/room"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (c controller) writeToConn(ctx context.Context, conn *websocket.Conn, output *Output) error {
	if conn == nil {
		return nil
	}

	if err := conn.WriteJSON(output); err != nil {
		return fmt.Errorf("failed to write to conn: %w", err)
	}

	return nil
}

// writeError reports a handler failure to the sender only. Internal error
// text is not leaked to the client.
func (c controller) writeError(ctx context.Context, conn *websocket.Conn, err error) error {
	return c.writeToConn(ctx, conn, &Output{
		Type: "ERROR",
		Payload: map[string]any{
			"message": clientMessage(err),
		},
	})
}

func clientMessage(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return "room not found"
	case errors.Is(err, room.ErrPlayerNotFound):
		return "player not found"
	case errors.Is(err, room.ErrRecordingNotFound):
		return "recording not found"
	case errors.Is(err, room.ErrInvalidKeyPress):
		return "key is not yours to play"
	case errors.Is(err, room.ErrKeyNotInScale):
		return "key is not in the current scale"
	case errors.Is(err, room.ErrNotRecording):
		return "no recording in progress"
	case errors.Is(err, ErrValidationError):
		return "invalid payload"
	default:
		return "internal error"
	}
}

func (c controller) broadcast(ctx context.Context, conns []*websocket.Conn, output *Output) error {
	for _, conn := range conns {
		if err := c.writeToConn(ctx, conn, output); err != nil {
			c.logger.WarnContext(ctx, "failed to write to conn", "error", err)
		}
	}

	return nil
}

func (c controller) broadcastRoomUpdated(ctx context.Context, conns []*websocket.Conn, roomState *room.RoomState) error {
	return c.broadcast(ctx, conns, &Output{
		Type: "ROOM_UPDATED",
		Payload: map[string]any{
			"room": roomState,
		},
	})
}
