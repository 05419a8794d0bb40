package inmemory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pianoparty/server/internal/repository/room"
)

func newTestRepo() *repo {
	return NewRepo(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func join(t *testing.T, r *repo, roomId, playerId string, asSpectator bool) (room.Room, int) {
	t.Helper()

	snapshot, keyIndex, err := r.JoinRoom(context.Background(), &room.JoinRoomParams{
		RoomId:      roomId,
		PlayerId:    playerId,
		PlayerName:  "player-" + playerId,
		AsSpectator: asSpectator,
	})
	require.NoError(t, err)

	return snapshot, keyIndex
}

func assertNoDuplicateKeys(t *testing.T, snapshot room.Room) {
	t.Helper()

	seen := make(map[int]string)
	for _, p := range snapshot.Players {
		if p.IsSpectator || p.KeyIndex < 0 {
			continue
		}
		if holder, ok := seen[p.KeyIndex]; ok {
			t.Fatalf("key %d held by both %s and %s", p.KeyIndex, holder, p.Id)
		}
		seen[p.KeyIndex] = p.Id
	}
}

func TestJoinRoomDefaults(t *testing.T) {
	r := newTestRepo()

	snapshot, keyIndex := join(t, r, "abc123", "p1", false)
	assert.Equal(t, 0, keyIndex, "first joiner gets the first key of C Major")
	assert.Equal(t, 120, snapshot.Tempo)
	assert.InDelta(t, 0.7, snapshot.Volume, 0.0001)
	assert.Equal(t, "C Major", snapshot.Scale)
	assert.False(t, snapshot.IsRecording)
	assert.False(t, snapshot.IsMetronomeOn)
	assert.Empty(t, snapshot.Recordings)
	require.Len(t, snapshot.Players, 1)
	assert.Equal(t, "player-p1", snapshot.Players[0].Name)
}

func TestJoinAllocationOrder(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	join(t, r, "jam", "p1", false)
	scaleName := "C Pentatonic"
	_, err := r.UpdateSettings(ctx, &room.UpdateSettingsParams{RoomId: "jam", Scale: &scaleName})
	require.NoError(t, err)

	wantKeys := []int{2, 4, 7, 9}
	for i, want := range wantKeys {
		_, keyIndex := join(t, r, "jam", fmt.Sprintf("p%d", i+2), false)
		assert.Equal(t, want, keyIndex, "joiner %d", i+2)
	}

	// scale is full: the 6th joiner is forced to spectator
	snapshot, keyIndex := join(t, r, "jam", "p6", false)
	assert.Equal(t, -1, keyIndex)
	require.Len(t, snapshot.Players, 6)
	assert.True(t, snapshot.Players[5].IsSpectator)

	active := 0
	held := make(map[int]bool)
	for _, p := range snapshot.Players {
		if !p.IsSpectator {
			active++
			held[p.KeyIndex] = true
		}
	}
	assert.Equal(t, 5, active)
	assert.Equal(t, map[int]bool{0: true, 2: true, 4: true, 7: true, 9: true}, held)
	assertNoDuplicateKeys(t, snapshot)
}

func TestScaleShrinkDemotesLastJoined(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	// C Major has 7 keys: 6 joins all become active
	for i := 1; i <= 6; i++ {
		join(t, r, "jam", fmt.Sprintf("p%d", i), false)
	}

	scaleName := "C Pentatonic"
	snapshot, err := r.UpdateSettings(ctx, &room.UpdateSettingsParams{RoomId: "jam", Scale: &scaleName})
	require.NoError(t, err)
	require.Len(t, snapshot.Players, 6)

	wantKeys := []int{0, 2, 4, 7, 9}
	for i, want := range wantKeys {
		p := snapshot.Players[i]
		assert.Equal(t, want, p.KeyIndex, "player %s", p.Id)
		assert.False(t, p.IsSpectator)
	}

	demoted := snapshot.Players[5]
	assert.Equal(t, "p6", demoted.Id, "exactly the last-joined player is demoted")
	assert.Equal(t, -1, demoted.KeyIndex)
	assert.True(t, demoted.IsSpectator)
	assertNoDuplicateKeys(t, snapshot)
}

func TestScaleChangeNeverPromotesSpectators(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	join(t, r, "jam", "p1", false)
	join(t, r, "jam", "watcher", true)

	scaleName := "G Major"
	snapshot, err := r.UpdateSettings(ctx, &room.UpdateSettingsParams{RoomId: "jam", Scale: &scaleName})
	require.NoError(t, err)

	assert.Equal(t, 7, snapshot.Players[0].KeyIndex, "active player gets first key of G Major")
	assert.True(t, snapshot.Players[1].IsSpectator)
	assert.Equal(t, -1, snapshot.Players[1].KeyIndex)
}

func TestUnknownScaleFallsBack(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	join(t, r, "jam", "p1", false)

	scaleName := "H Mixolydian"
	snapshot, err := r.UpdateSettings(ctx, &room.UpdateSettingsParams{RoomId: "jam", Scale: &scaleName})
	require.NoError(t, err)
	assert.Equal(t, "C Major", snapshot.Scale)
}

func TestSettingsClamped(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	join(t, r, "jam", "p1", false)

	tempo := 500
	volume := 1.5
	snapshot, err := r.UpdateSettings(ctx, &room.UpdateSettingsParams{RoomId: "jam", Tempo: &tempo, Volume: &volume})
	require.NoError(t, err)
	assert.Equal(t, 200, snapshot.Tempo)
	assert.InDelta(t, 1.0, snapshot.Volume, 0.0001)

	tempo = 10
	volume = -0.5
	snapshot, err = r.UpdateSettings(ctx, &room.UpdateSettingsParams{RoomId: "jam", Tempo: &tempo, Volume: &volume})
	require.NoError(t, err)
	assert.Equal(t, 60, snapshot.Tempo)
	assert.InDelta(t, 0.0, snapshot.Volume, 0.0001)
}

func TestPressKeyValidation(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	_, keyIndex := join(t, r, "jam", "p1", false)
	join(t, r, "jam", "watcher", true)

	_, err := r.PressKey(ctx, &room.PressKeyParams{RoomId: "nope", PlayerId: "p1", KeyIndex: keyIndex})
	assert.ErrorIs(t, err, room.ErrRoomNotFound)

	_, err = r.PressKey(ctx, &room.PressKeyParams{RoomId: "jam", PlayerId: "ghost", KeyIndex: keyIndex})
	assert.ErrorIs(t, err, room.ErrPlayerNotFound)

	_, err = r.PressKey(ctx, &room.PressKeyParams{RoomId: "jam", PlayerId: "p1", KeyIndex: keyIndex + 2})
	assert.ErrorIs(t, err, room.ErrKeyNotOwned)

	_, err = r.PressKey(ctx, &room.PressKeyParams{RoomId: "jam", PlayerId: "watcher", KeyIndex: -1})
	assert.ErrorIs(t, err, room.ErrSpectator)

	event, err := r.PressKey(ctx, &room.PressKeyParams{RoomId: "jam", PlayerId: "p1", KeyIndex: keyIndex, Frequency: 261.63})
	require.NoError(t, err)
	assert.Equal(t, room.EventKeyPress, event.Type)
	require.NotNil(t, event.KeyPress)
	assert.Equal(t, "player-p1", event.KeyPress.PlayerName)
	assert.InDelta(t, 261.63, event.KeyPress.Frequency, 0.0001)
}

func TestLeaveLastPlayerDeletesRoom(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	join(t, r, "jam", "p1", false)
	join(t, r, "jam", "p2", false)

	snapshot, roomId, deleted, err := r.LeavePlayer(ctx, "p2")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, "jam", roomId)
	require.Len(t, snapshot.Players, 1)

	_, roomId, deleted, err = r.LeavePlayer(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, "jam", roomId)

	assert.False(t, r.RoomExists(ctx, "jam"))

	// leaving again reports the missing mapping
	_, _, _, err = r.LeavePlayer(ctx, "p1")
	assert.ErrorIs(t, err, room.ErrPlayerNotFound)

	// a rejoin creates a brand-new room with defaults
	tempo := 80
	join(t, r, "jam", "p1", false)
	_, err = r.UpdateSettings(ctx, &room.UpdateSettingsParams{RoomId: "jam", Tempo: &tempo})
	require.NoError(t, err)
	_, _, _, err = r.LeavePlayer(ctx, "p1")
	require.NoError(t, err)

	fresh, _ := join(t, r, "jam", "p9", false)
	assert.Equal(t, 120, fresh.Tempo)
	assert.Equal(t, "C Major", fresh.Scale)
	assert.Empty(t, fresh.Recordings)
}

func TestLeaveFreesKeyForNextJoin(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	_, k1 := join(t, r, "jam", "p1", false)
	join(t, r, "jam", "p2", false)
	require.Equal(t, 0, k1)

	_, _, _, err := r.LeavePlayer(ctx, "p1")
	require.NoError(t, err)

	_, k3 := join(t, r, "jam", "p3", false)
	assert.Equal(t, 0, k3, "freed key is reallocated in scale order")
}

func TestSweepInactiveRooms(t *testing.T) {
	r := newTestRepo()
	ctx := context.Background()

	now := time.Now()
	r.now = func() time.Time { return now }

	join(t, r, "stale", "p1", false)
	join(t, r, "fresh", "p2", false)

	// an hour passes, then only "fresh" sees activity
	now = now.Add(61 * time.Minute)
	tempo := 100
	_, err := r.UpdateSettings(ctx, &room.UpdateSettingsParams{RoomId: "fresh", Tempo: &tempo})
	require.NoError(t, err)

	deleted := r.SweepInactiveRooms(ctx, time.Hour)
	assert.Equal(t, []string{"stale"}, deleted)
	assert.False(t, r.RoomExists(ctx, "stale"))
	assert.True(t, r.RoomExists(ctx, "fresh"))

	// reverse mapping of swept players is gone too
	_, err = r.GetPlayerRoomId(ctx, "p1")
	assert.ErrorIs(t, err, room.ErrPlayerNotFound)
	roomId, err := r.GetPlayerRoomId(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "fresh", roomId)
}
