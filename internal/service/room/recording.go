package room

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/pianoparty/server/internal/repository/room"
)

func (s service) StartRecording(ctx context.Context, roomId string) (UpdateSettingsResponse, error) {
	snapshot, err := s.roomRepo.StartRecording(ctx, roomId)
	if err != nil {
		return UpdateSettingsResponse{}, fmt.Errorf("failed to start recording: %w", mapError(err))
	}

	return UpdateSettingsResponse{
		Room:  toRoomState(snapshot),
		Conns: s.getConns(snapshot),
	}, nil
}

type StopRecordingParams struct {
	RoomId string
	Name   string
}

type StopRecordingResponse struct {
	Room      RoomState
	Recording RecordingInfo
	Conns     []*websocket.Conn
}

func (s service) StopRecording(ctx context.Context, params *StopRecordingParams) (StopRecordingResponse, error) {
	snapshot, recording, err := s.roomRepo.StopRecording(ctx, &room.StopRecordingParams{
		RoomId: params.RoomId,
		Name:   params.Name,
	})
	if err != nil {
		return StopRecordingResponse{}, fmt.Errorf("failed to stop recording: %w", mapError(err))
	}

	return StopRecordingResponse{
		Room:      toRoomState(snapshot),
		Recording: toRecordingInfo(recording),
		Conns:     s.getConns(snapshot),
	}, nil
}

type PlayRecordingParams struct {
	RoomId      string
	RecordingId string
}

type PlayRecordingResponse struct {
	Recording Recording
	Conns     []*websocket.Conn
}

// PlayRecording returns the full event list; the clients schedule the
// events themselves from the relative times.
func (s service) PlayRecording(ctx context.Context, params *PlayRecordingParams) (PlayRecordingResponse, error) {
	recording, err := s.roomRepo.GetRecording(ctx, params.RoomId, params.RecordingId)
	if err != nil {
		return PlayRecordingResponse{}, fmt.Errorf("failed to get recording: %w", mapError(err))
	}

	snapshot, err := s.roomRepo.GetRoom(ctx, params.RoomId)
	if err != nil {
		return PlayRecordingResponse{}, fmt.Errorf("failed to get room: %w", mapError(err))
	}

	return PlayRecordingResponse{
		Recording: toRecording(recording),
		Conns:     s.getConns(snapshot),
	}, nil
}
