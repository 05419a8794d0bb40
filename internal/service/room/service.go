package room

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pianoparty/server/internal/repository/room"
	"github.com/pianoparty/server/pkg/randstr"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrRecordingNotFound = errors.New("recording not found")
	ErrInvalidKeyPress   = errors.New("invalid key press")
	ErrKeyNotInScale     = errors.New("key not in scale")
	ErrNotRecording      = errors.New("not recording")
)

type iRoomRepo interface {
	JoinRoom(context.Context, *room.JoinRoomParams) (room.Room, int, error)
	LeavePlayer(ctx context.Context, playerId string) (room.Room, string, bool, error)
	GetRoom(ctx context.Context, roomId string) (room.Room, error)
	RoomExists(ctx context.Context, roomId string) bool
	GetPlayerRoomId(ctx context.Context, playerId string) (string, error)
	SetPlayerConnected(ctx context.Context, playerId string, connected bool) error
	PressKey(context.Context, *room.PressKeyParams) (room.Event, error)
	UpdateSettings(context.Context, *room.UpdateSettingsParams) (room.Room, error)
	ToggleMetronome(ctx context.Context, roomId string) (room.Room, error)
	StartRecording(ctx context.Context, roomId string) (room.Room, error)
	StopRecording(context.Context, *room.StopRecordingParams) (room.Room, room.Recording, error)
	GetRecording(ctx context.Context, roomId, recordingId string) (room.Recording, error)
	SweepInactiveRooms(ctx context.Context, threshold time.Duration) []string
}

type iConnRepo interface {
	Add(conn *websocket.Conn, playerId string) error
	RemoveByPlayerId(playerId string) (*websocket.Conn, error)
	RemoveByConn(conn *websocket.Conn) (string, error)
	GetConn(playerId string) (*websocket.Conn, error)
	GetPlayerId(conn *websocket.Conn) (string, error)
}

type iGenerator interface {
	GenerateRandomString(length int) string
}

type Config struct {
	RoomTTL        time.Duration
	RoomCodeLength int
}

type service struct {
	roomRepo       iRoomRepo
	connRepo       iConnRepo
	generator      iGenerator
	logger         *slog.Logger
	roomTTL        time.Duration
	roomCodeLength int
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, logger *slog.Logger, cfg *Config) *service {
	s := service{
		roomRepo:       roomRepo,
		connRepo:       connRepo,
		logger:         logger,
		roomTTL:        cfg.RoomTTL,
		roomCodeLength: cfg.RoomCodeLength,
	}

	letterBytes := []byte("abcdefghjkmnpqrstuvwxyz23456789")
	s.generator = randstr.New(letterBytes)

	return &s
}
