package room

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/pianoparty/server/internal/repository/room"
)

type UpdateSettingsResponse struct {
	Room  RoomState
	Conns []*websocket.Conn
}

type UpdateTempoParams struct {
	RoomId string
	Tempo  int
}

func (s service) UpdateTempo(ctx context.Context, params *UpdateTempoParams) (UpdateSettingsResponse, error) {
	return s.applySettings(ctx, &room.UpdateSettingsParams{RoomId: params.RoomId, Tempo: &params.Tempo})
}

type UpdateVolumeParams struct {
	RoomId string
	Volume float64
}

func (s service) UpdateVolume(ctx context.Context, params *UpdateVolumeParams) (UpdateSettingsResponse, error) {
	return s.applySettings(ctx, &room.UpdateSettingsParams{RoomId: params.RoomId, Volume: &params.Volume})
}

type UpdatePlayingParams struct {
	RoomId    string
	IsPlaying bool
}

func (s service) UpdatePlaying(ctx context.Context, params *UpdatePlayingParams) (UpdateSettingsResponse, error) {
	return s.applySettings(ctx, &room.UpdateSettingsParams{RoomId: params.RoomId, IsPlaying: &params.IsPlaying})
}

func (s service) ToggleMetronome(ctx context.Context, roomId string) (UpdateSettingsResponse, error) {
	snapshot, err := s.roomRepo.ToggleMetronome(ctx, roomId)
	if err != nil {
		return UpdateSettingsResponse{}, fmt.Errorf("failed to toggle metronome: %w", mapError(err))
	}

	return UpdateSettingsResponse{
		Room:  toRoomState(snapshot),
		Conns: s.getConns(snapshot),
	}, nil
}

type UpdateScaleParams struct {
	RoomId string
	Scale  string
}

type UpdateScaleResponse struct {
	Room        RoomState
	Conns       []*websocket.Conn
	Assignments []KeyAssignment
}

// UpdateScale switches the active scale; key reassignment means every
// player must additionally be told its own new key.
func (s service) UpdateScale(ctx context.Context, params *UpdateScaleParams) (UpdateScaleResponse, error) {
	snapshot, err := s.roomRepo.UpdateSettings(ctx, &room.UpdateSettingsParams{
		RoomId: params.RoomId,
		Scale:  &params.Scale,
	})
	if err != nil {
		return UpdateScaleResponse{}, fmt.Errorf("failed to update scale: %w", mapError(err))
	}

	assignments := make([]KeyAssignment, 0, len(snapshot.Players))
	for _, p := range snapshot.Players {
		conn, err := s.connRepo.GetConn(p.Id)
		if err != nil {
			continue
		}

		assignments = append(assignments, KeyAssignment{
			Conn:        conn,
			PlayerId:    p.Id,
			KeyIndex:    p.KeyIndex,
			IsSpectator: p.IsSpectator,
		})
	}

	return UpdateScaleResponse{
		Room:        toRoomState(snapshot),
		Conns:       s.getConns(snapshot),
		Assignments: assignments,
	}, nil
}

func (s service) applySettings(ctx context.Context, params *room.UpdateSettingsParams) (UpdateSettingsResponse, error) {
	snapshot, err := s.roomRepo.UpdateSettings(ctx, params)
	if err != nil {
		return UpdateSettingsResponse{}, fmt.Errorf("failed to update settings: %w", mapError(err))
	}

	return UpdateSettingsResponse{
		Room:  toRoomState(snapshot),
		Conns: s.getConns(snapshot),
	}, nil
}
