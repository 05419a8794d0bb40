package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/pianoparty/server/internal/service/room"
)

type EmptyInput struct{}

func (c controller) handleAlive(_ context.Context, _ *websocket.Conn, _ EmptyInput) error {
	return nil
}

type PressKeyInput struct {
	KeyIndex  int     `json:"key_index" validate:"min=0,max=11"`
	Frequency float64 `json:"frequency" validate:"min=0"`
}

func (c controller) handlePressKey(ctx context.Context, conn *websocket.Conn, input PressKeyInput) error {
	roomId := c.getRoomIdFromCtx(ctx)
	playerId := c.getPlayerIdFromCtx(ctx)

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
	}

	pressKeyResp, err := c.roomService.PressKey(ctx, &room.PressKeyParams{
		RoomId:    roomId,
		SenderId:  playerId,
		KeyIndex:  input.KeyIndex,
		Frequency: input.Frequency,
	})
	if err != nil {
		return fmt.Errorf("failed to press key: %w", err)
	}

	if err := c.broadcast(ctx, pressKeyResp.Conns, &Output{
		Type:    "KEY_PRESSED",
		Payload: pressKeyResp.KeyPressed,
	}); err != nil {
		return fmt.Errorf("failed to broadcast key pressed: %w", err)
	}

	return nil
}

type UpdateTempoInput struct {
	Tempo int `json:"tempo" validate:"required,min=60,max=200"`
}

func (c controller) handleUpdateTempo(ctx context.Context, conn *websocket.Conn, input UpdateTempoInput) error {
	roomId := c.getRoomIdFromCtx(ctx)

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
	}

	updateTempoResp, err := c.roomService.UpdateTempo(ctx, &room.UpdateTempoParams{
		RoomId: roomId,
		Tempo:  input.Tempo,
	})
	if err != nil {
		return fmt.Errorf("failed to update tempo: %w", err)
	}

	if err := c.broadcastRoomUpdated(ctx, updateTempoResp.Conns, &updateTempoResp.Room); err != nil {
		return fmt.Errorf("failed to broadcast room updated: %w", err)
	}

	return nil
}

type UpdateVolumeInput struct {
	Volume float64 `json:"volume" validate:"min=0,max=1"`
}

func (c controller) handleUpdateVolume(ctx context.Context, conn *websocket.Conn, input UpdateVolumeInput) error {
	roomId := c.getRoomIdFromCtx(ctx)

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
	}

	updateVolumeResp, err := c.roomService.UpdateVolume(ctx, &room.UpdateVolumeParams{
		RoomId: roomId,
		Volume: input.Volume,
	})
	if err != nil {
		return fmt.Errorf("failed to update volume: %w", err)
	}

	if err := c.broadcastRoomUpdated(ctx, updateVolumeResp.Conns, &updateVolumeResp.Room); err != nil {
		return fmt.Errorf("failed to broadcast room updated: %w", err)
	}

	return nil
}

type UpdateScaleInput struct {
	Scale string `json:"scale" validate:"required"`
}

// handleUpdateScale broadcasts the updated room and additionally tells
// every player its reassigned key.
func (c controller) handleUpdateScale(ctx context.Context, conn *websocket.Conn, input UpdateScaleInput) error {
	roomId := c.getRoomIdFromCtx(ctx)

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
	}

	updateScaleResp, err := c.roomService.UpdateScale(ctx, &room.UpdateScaleParams{
		RoomId: roomId,
		Scale:  input.Scale,
	})
	if err != nil {
		return fmt.Errorf("failed to update scale: %w", err)
	}

	if err := c.broadcastRoomUpdated(ctx, updateScaleResp.Conns, &updateScaleResp.Room); err != nil {
		return fmt.Errorf("failed to broadcast room updated: %w", err)
	}

	for _, assignment := range updateScaleResp.Assignments {
		if err := c.writeToConn(ctx, assignment.Conn, &Output{
			Type:    "KEY_ASSIGNED",
			Payload: assignment,
		}); err != nil {
			c.logger.WarnContext(ctx, "failed to write key assignment", "error", err)
		}
	}

	return nil
}

func (c controller) handleToggleMetronome(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	roomId := c.getRoomIdFromCtx(ctx)

	toggleMetronomeResp, err := c.roomService.ToggleMetronome(ctx, roomId)
	if err != nil {
		return fmt.Errorf("failed to toggle metronome: %w", err)
	}

	if err := c.broadcastRoomUpdated(ctx, toggleMetronomeResp.Conns, &toggleMetronomeResp.Room); err != nil {
		return fmt.Errorf("failed to broadcast room updated: %w", err)
	}

	return nil
}

type UpdatePlayingInput struct {
	IsPlaying bool `json:"is_playing"`
}

func (c controller) handleUpdatePlaying(ctx context.Context, conn *websocket.Conn, input UpdatePlayingInput) error {
	roomId := c.getRoomIdFromCtx(ctx)

	updatePlayingResp, err := c.roomService.UpdatePlaying(ctx, &room.UpdatePlayingParams{
		RoomId:    roomId,
		IsPlaying: input.IsPlaying,
	})
	if err != nil {
		return fmt.Errorf("failed to update playing: %w", err)
	}

	if err := c.broadcastRoomUpdated(ctx, updatePlayingResp.Conns, &updatePlayingResp.Room); err != nil {
		return fmt.Errorf("failed to broadcast room updated: %w", err)
	}

	return nil
}

func (c controller) handleStartRecording(ctx context.Context, conn *websocket.Conn, _ EmptyInput) error {
	roomId := c.getRoomIdFromCtx(ctx)

	startRecordingResp, err := c.roomService.StartRecording(ctx, roomId)
	if err != nil {
		return fmt.Errorf("failed to start recording: %w", err)
	}

	if err := c.broadcastRoomUpdated(ctx, startRecordingResp.Conns, &startRecordingResp.Room); err != nil {
		return fmt.Errorf("failed to broadcast room updated: %w", err)
	}

	return nil
}

type StopRecordingInput struct {
	Name string `json:"name" validate:"max=64"`
}

func (c controller) handleStopRecording(ctx context.Context, conn *websocket.Conn, input StopRecordingInput) error {
	roomId := c.getRoomIdFromCtx(ctx)

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
	}

	stopRecordingResp, err := c.roomService.StopRecording(ctx, &room.StopRecordingParams{
		RoomId: roomId,
		Name:   input.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to stop recording: %w", err)
	}

	if err := c.broadcastRoomUpdated(ctx, stopRecordingResp.Conns, &stopRecordingResp.Room); err != nil {
		return fmt.Errorf("failed to broadcast room updated: %w", err)
	}

	return nil
}

type PlayRecordingInput struct {
	RecordingId string `json:"recording_id" validate:"required"`
}

func (c controller) handlePlayRecording(ctx context.Context, conn *websocket.Conn, input PlayRecordingInput) error {
	roomId := c.getRoomIdFromCtx(ctx)

	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
	}

	playRecordingResp, err := c.roomService.PlayRecording(ctx, &room.PlayRecordingParams{
		RoomId:      roomId,
		RecordingId: input.RecordingId,
	})
	if err != nil {
		return fmt.Errorf("failed to play recording: %w", err)
	}

	if err := c.broadcast(ctx, playRecordingResp.Conns, &Output{
		Type: "RECORDING_PLAYBACK",
		Payload: map[string]any{
			"recording": playRecordingResp.Recording,
		},
	}); err != nil {
		return fmt.Errorf("failed to broadcast recording playback: %w", err)
	}

	return nil
}
