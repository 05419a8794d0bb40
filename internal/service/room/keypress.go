package room

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/pianoparty/server/internal/repository/room"
)

type PressKeyParams struct {
	RoomId    string
	SenderId  string
	KeyIndex  int
	Frequency float64
}

type PressKeyResponse struct {
	KeyPressed KeyPressed
	Conns      []*websocket.Conn
}

// PressKey validates the press against the sender's assignment and returns
// the event for broadcast to the whole room, sender included. A rejected
// press mutates nothing and must be reported to the sender only.
func (s service) PressKey(ctx context.Context, params *PressKeyParams) (PressKeyResponse, error) {
	event, err := s.roomRepo.PressKey(ctx, &room.PressKeyParams{
		RoomId:    params.RoomId,
		PlayerId:  params.SenderId,
		KeyIndex:  params.KeyIndex,
		Frequency: params.Frequency,
	})
	if err != nil {
		return PressKeyResponse{}, fmt.Errorf("failed to press key: %w", mapError(err))
	}

	snapshot, err := s.roomRepo.GetRoom(ctx, params.RoomId)
	if err != nil {
		return PressKeyResponse{}, fmt.Errorf("failed to get room: %w", mapError(err))
	}

	return PressKeyResponse{
		KeyPressed: KeyPressed{
			KeyIndex:   event.KeyPress.KeyIndex,
			PlayerId:   event.KeyPress.PlayerId,
			PlayerName: event.KeyPress.PlayerName,
			Frequency:  event.KeyPress.Frequency,
			Timestamp:  event.Timestamp,
		},
		Conns: s.getConns(snapshot),
	}, nil
}
