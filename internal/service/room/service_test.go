package room

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	connInmemory "github.com/pianoparty/server/internal/repository/connection/inmemory"
	roomInmemory "github.com/pianoparty/server/internal/repository/room/inmemory"
)

func newTestService() *service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	roomRepo := roomInmemory.NewRepo(logger)
	connRepo := connInmemory.NewRepo()

	return NewService(roomRepo, connRepo, logger, &Config{
		RoomTTL:        time.Hour,
		RoomCodeLength: 6,
	})
}

func TestJamSessionFlow(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	// player 1 joins a fresh room
	join1, err := s.JoinRoom(ctx, &JoinRoomParams{RoomId: "jam", PlayerName: "ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, join1.PlayerId)
	assert.Equal(t, 0, join1.KeyIndex, "first key of C Major")
	assert.False(t, join1.IsSpectator)
	assert.Equal(t, 120, join1.Room.Tempo)
	assert.Empty(t, join1.Conns, "nobody to notify yet")

	err = s.ConnectPlayer(ctx, &ConnectPlayerParams{Conn: &websocket.Conn{}, PlayerId: join1.PlayerId})
	require.NoError(t, err)

	// player 2 joins
	join2, err := s.JoinRoom(ctx, &JoinRoomParams{RoomId: "jam", PlayerName: "lin"})
	require.NoError(t, err)
	assert.Equal(t, 2, join2.KeyIndex)
	require.Len(t, join2.Room.Players, 2)
	assert.Len(t, join2.Conns, 1, "player 1 must be notified")

	err = s.ConnectPlayer(ctx, &ConnectPlayerParams{Conn: &websocket.Conn{}, PlayerId: join2.PlayerId})
	require.NoError(t, err)

	state, err := s.GetRoomState(ctx, "jam")
	require.NoError(t, err)
	assert.True(t, state.Players[0].IsConnected)
	assert.True(t, state.Players[1].IsConnected)

	// recording round trip
	_, err = s.StartRecording(ctx, "jam")
	require.NoError(t, err)

	pressResp, err := s.PressKey(ctx, &PressKeyParams{
		RoomId:    "jam",
		SenderId:  join1.PlayerId,
		KeyIndex:  join1.KeyIndex,
		Frequency: 261.63,
	})
	require.NoError(t, err)
	assert.Equal(t, "ada", pressResp.KeyPressed.PlayerName)
	assert.NotZero(t, pressResp.KeyPressed.Timestamp)
	assert.Len(t, pressResp.Conns, 2, "key presses go to the whole room, sender included")

	// a press for a key the sender does not hold is rejected
	_, err = s.PressKey(ctx, &PressKeyParams{RoomId: "jam", SenderId: join2.PlayerId, KeyIndex: join1.KeyIndex})
	assert.ErrorIs(t, err, ErrInvalidKeyPress)

	stopResp, err := s.StopRecording(ctx, &StopRecordingParams{RoomId: "jam", Name: "take1"})
	require.NoError(t, err)
	assert.Equal(t, "take1", stopResp.Recording.Name)
	assert.Equal(t, 2, stopResp.Recording.PlayerCount)
	require.Len(t, stopResp.Room.Recordings, 1)

	_, err = s.StopRecording(ctx, &StopRecordingParams{RoomId: "jam"})
	assert.ErrorIs(t, err, ErrNotRecording)

	playResp, err := s.PlayRecording(ctx, &PlayRecordingParams{RoomId: "jam", RecordingId: stopResp.Recording.Id})
	require.NoError(t, err)
	require.Len(t, playResp.Recording.Events, 1)
	assert.Len(t, playResp.Conns, 2)

	_, err = s.PlayRecording(ctx, &PlayRecordingParams{RoomId: "jam", RecordingId: "missing"})
	assert.ErrorIs(t, err, ErrRecordingNotFound)

	// scale change fans out per-player assignments
	scaleResp, err := s.UpdateScale(ctx, &UpdateScaleParams{RoomId: "jam", Scale: "A Minor Pentatonic"})
	require.NoError(t, err)
	assert.Equal(t, "A Minor Pentatonic", scaleResp.Room.Scale)
	require.Len(t, scaleResp.Assignments, 2)
	assert.Equal(t, 9, scaleResp.Assignments[0].KeyIndex)
	assert.Equal(t, 0, scaleResp.Assignments[1].KeyIndex)

	// disconnects
	disc1, err := s.DisconnectPlayer(ctx, &DisconnectPlayerParams{PlayerId: join2.PlayerId})
	require.NoError(t, err)
	assert.False(t, disc1.IsRoomDeleted)
	require.Len(t, disc1.Room.Players, 1)

	disc2, err := s.DisconnectPlayer(ctx, &DisconnectPlayerParams{PlayerId: join1.PlayerId})
	require.NoError(t, err)
	assert.True(t, disc2.IsRoomDeleted)

	_, err = s.GetRoomState(ctx, "jam")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestUpdateSettings(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	join1, err := s.JoinRoom(ctx, &JoinRoomParams{RoomId: "jam", PlayerName: "ada"})
	require.NoError(t, err)
	require.NoError(t, s.ConnectPlayer(ctx, &ConnectPlayerParams{Conn: &websocket.Conn{}, PlayerId: join1.PlayerId}))

	tempoResp, err := s.UpdateTempo(ctx, &UpdateTempoParams{RoomId: "jam", Tempo: 90})
	require.NoError(t, err)
	assert.Equal(t, 90, tempoResp.Room.Tempo)

	volumeResp, err := s.UpdateVolume(ctx, &UpdateVolumeParams{RoomId: "jam", Volume: 0.3})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, volumeResp.Room.Volume, 0.0001)

	metronomeResp, err := s.ToggleMetronome(ctx, "jam")
	require.NoError(t, err)
	assert.True(t, metronomeResp.Room.IsMetronomeOn)

	playingResp, err := s.UpdatePlaying(ctx, &UpdatePlayingParams{RoomId: "jam", IsPlaying: true})
	require.NoError(t, err)
	assert.True(t, playingResp.Room.IsPlaying)

	_, err = s.UpdateTempo(ctx, &UpdateTempoParams{RoomId: "ghost", Tempo: 90})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestNewRoomCode(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	code := s.NewRoomCode(ctx)
	assert.Len(t, code, 6)

	// a code in use is never handed out again
	_, err := s.JoinRoom(ctx, &JoinRoomParams{RoomId: code, PlayerName: "ada"})
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		assert.NotEqual(t, code, s.NewRoomCode(ctx))
	}
}
