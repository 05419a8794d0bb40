package room

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pianoparty/server/internal/repository/room"
)

type JoinRoomParams struct {
	RoomId      string
	PlayerName  string
	AsSpectator bool
}

type JoinRoomResponse struct {
	PlayerId    string
	KeyIndex    int
	IsSpectator bool
	Room        RoomState
	Conns       []*websocket.Conn
}

// JoinRoom registers a new player in the room, creating the room on first
// join. The returned conns are the connections of the other players, for
// the room-update broadcast.
func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	playerId := uuid.NewString()

	snapshot, keyIndex, err := s.roomRepo.JoinRoom(ctx, &room.JoinRoomParams{
		RoomId:      params.RoomId,
		PlayerId:    playerId,
		PlayerName:  params.PlayerName,
		AsSpectator: params.AsSpectator,
	})
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to join room: %w", mapError(err))
	}

	s.logger.InfoContext(ctx, "player joined",
		"room_id", params.RoomId,
		"player_id", playerId,
		"key_index", keyIndex,
	)

	return JoinRoomResponse{
		PlayerId:    playerId,
		KeyIndex:    keyIndex,
		IsSpectator: keyIndex == -1,
		Room:        toRoomState(snapshot),
		Conns:       s.getConns(snapshot),
	}, nil
}

type ConnectPlayerParams struct {
	Conn     *websocket.Conn
	PlayerId string
}

func (s service) ConnectPlayer(ctx context.Context, params *ConnectPlayerParams) error {
	if err := s.connRepo.Add(params.Conn, params.PlayerId); err != nil {
		return fmt.Errorf("failed to add connection: %w", err)
	}

	if err := s.roomRepo.SetPlayerConnected(ctx, params.PlayerId, true); err != nil {
		return fmt.Errorf("failed to mark player connected: %w", mapError(err))
	}

	return nil
}

type DisconnectPlayerParams struct {
	PlayerId string
}

type DisconnectPlayerResponse struct {
	IsRoomDeleted bool
	Room          RoomState
	Conns         []*websocket.Conn
}

// DisconnectPlayer removes the player's connection and leaves its room.
// When the room becomes empty it is deleted and there is no broadcast
// target.
func (s service) DisconnectPlayer(ctx context.Context, params *DisconnectPlayerParams) (DisconnectPlayerResponse, error) {
	if _, err := s.connRepo.RemoveByPlayerId(params.PlayerId); err != nil {
		s.logger.DebugContext(ctx, "no connection to remove", "player_id", params.PlayerId)
	}

	snapshot, roomId, deleted, err := s.roomRepo.LeavePlayer(ctx, params.PlayerId)
	if err != nil {
		return DisconnectPlayerResponse{}, fmt.Errorf("failed to leave room: %w", mapError(err))
	}

	s.logger.InfoContext(ctx, "player left", "room_id", roomId, "player_id", params.PlayerId, "room_deleted", deleted)

	if deleted {
		return DisconnectPlayerResponse{IsRoomDeleted: true}, nil
	}

	return DisconnectPlayerResponse{
		Room:  toRoomState(snapshot),
		Conns: s.getConns(snapshot),
	}, nil
}

func (s service) GetRoomState(ctx context.Context, roomId string) (RoomState, error) {
	snapshot, err := s.roomRepo.GetRoom(ctx, roomId)
	if err != nil {
		return RoomState{}, fmt.Errorf("failed to get room: %w", mapError(err))
	}

	return toRoomState(snapshot), nil
}

// NewRoomCode returns a shareable code no existing room uses.
func (s service) NewRoomCode(ctx context.Context) string {
	for {
		code := s.generator.GenerateRandomString(s.roomCodeLength)
		if !s.roomRepo.RoomExists(ctx, code) {
			return code
		}
	}
}

// SweepInactiveRooms deletes rooms idle longer than the configured TTL and
// returns how many were deleted. Scheduling is up to the caller.
func (s service) SweepInactiveRooms(ctx context.Context) int {
	deleted := s.roomRepo.SweepInactiveRooms(ctx, s.roomTTL)
	if len(deleted) > 0 {
		s.logger.InfoContext(ctx, "swept inactive rooms", "count", len(deleted))
	}

	return len(deleted)
}
