package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/pianoparty/server/internal/service/room"
	"github.com/pianoparty/server/pkg/validator"
	"github.com/pianoparty/server/pkg/wsrouter"
)

var ErrValidationError = errors.New("validation error")

type iRoomService interface {
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	ConnectPlayer(context.Context, *room.ConnectPlayerParams) error
	DisconnectPlayer(context.Context, *room.DisconnectPlayerParams) (room.DisconnectPlayerResponse, error)
	GetRoomState(ctx context.Context, roomId string) (room.RoomState, error)
	NewRoomCode(ctx context.Context) string
	PressKey(context.Context, *room.PressKeyParams) (room.PressKeyResponse, error)
	UpdateTempo(context.Context, *room.UpdateTempoParams) (room.UpdateSettingsResponse, error)
	UpdateVolume(context.Context, *room.UpdateVolumeParams) (room.UpdateSettingsResponse, error)
	UpdateScale(context.Context, *room.UpdateScaleParams) (room.UpdateScaleResponse, error)
	UpdatePlaying(context.Context, *room.UpdatePlayingParams) (room.UpdateSettingsResponse, error)
	ToggleMetronome(ctx context.Context, roomId string) (room.UpdateSettingsResponse, error)
	StartRecording(ctx context.Context, roomId string) (room.UpdateSettingsResponse, error)
	StopRecording(context.Context, *room.StopRecordingParams) (room.StopRecordingResponse, error)
	PlayRecording(context.Context, *room.PlayRecordingParams) (room.PlayRecordingResponse, error)
}

type controller struct {
	roomService iRoomService
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
	wsmux       *wsrouter.WSRouter
}

func NewController(roomService iRoomService, logger *slog.Logger) *controller {
	c := controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService: roomService,
		validate:    validator.NewValidator(),
		logger:      logger,
	}
	c.wsmux = c.getWSRouter()

	return &c
}
