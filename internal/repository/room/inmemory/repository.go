package inmemory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pianoparty/server/internal/repository/room"
	"github.com/pianoparty/server/pkg/scale"
)

const (
	defaultTempo  = 120
	defaultVolume = 0.7
)

// roomState is the registry's mutable record of one room. Every mutation
// happens under mu; snapshots are taken before the lock is released.
type roomState struct {
	mu sync.Mutex

	id            string
	players       map[string]*room.Player
	order         []string // player ids in join order
	tempo         int
	volume        float64
	isPlaying     bool
	isMetronomeOn bool
	scaleName     string
	isRecording   bool
	buffer        []room.Event
	recordings    []room.Recording
	createdAt     time.Time
	lastActivity  time.Time
}

// repo is the process-wide room registry: a rooms map plus a reverse
// player-to-room map. The registry mutex guards only the maps; room
// mutations are serialized by each room's own mutex. Lock order is always
// registry first, then room.
type repo struct {
	mu         sync.RWMutex
	rooms      map[string]*roomState
	playerRoom map[string]string
	logger     *slog.Logger
	now        func() time.Time
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		rooms:      make(map[string]*roomState),
		playerRoom: make(map[string]string),
		logger:     logger,
		now:        time.Now,
	}
}

func newRoomState(roomId string, now time.Time) *roomState {
	return &roomState{
		id:           roomId,
		players:      make(map[string]*room.Player),
		tempo:        defaultTempo,
		volume:       defaultVolume,
		scaleName:    scale.Fallback,
		createdAt:    now,
		lastActivity: now,
	}
}

// lockRoom returns the room locked for mutation, or false if it does not
// exist. The caller must unlock it.
func (r *repo) lockRoom(roomId string) (*roomState, bool) {
	r.mu.RLock()
	rm, ok := r.rooms[roomId]
	if ok {
		rm.mu.Lock()
	}
	r.mu.RUnlock()

	return rm, ok
}

func (rm *roomState) snapshotLocked() room.Room {
	players := make([]room.Player, 0, len(rm.order))
	for _, id := range rm.order {
		players = append(players, *rm.players[id])
	}

	recordings := make([]room.Recording, len(rm.recordings))
	copy(recordings, rm.recordings)

	return room.Room{
		Id:            rm.id,
		Players:       players,
		Tempo:         rm.tempo,
		Volume:        rm.volume,
		IsPlaying:     rm.isPlaying,
		IsRecording:   rm.isRecording,
		IsMetronomeOn: rm.isMetronomeOn,
		Scale:         rm.scaleName,
		Recordings:    recordings,
		CreatedAt:     rm.createdAt,
		LastActivity:  rm.lastActivity,
	}
}

func (rm *roomState) activePlayerCountLocked() int {
	count := 0
	for _, p := range rm.players {
		if !p.IsSpectator {
			count++
		}
	}

	return count
}

// JoinRoom creates the room on first join and assigns the player a key from
// the active scale. A join into a full scale is forced to spectator.
func (r *repo) JoinRoom(ctx context.Context, params *room.JoinRoomParams) (room.Room, int, error) {
	r.mu.Lock()
	rm, ok := r.rooms[params.RoomId]
	if !ok {
		rm = newRoomState(params.RoomId, r.now())
		r.rooms[params.RoomId] = rm
		r.logger.InfoContext(ctx, "room created", "room_id", params.RoomId)
	}
	r.playerRoom[params.PlayerId] = params.RoomId
	rm.mu.Lock()
	r.mu.Unlock()
	defer rm.mu.Unlock()

	asSpectator := params.AsSpectator
	keyIndex := -1
	if !asSpectator {
		if available := availableKeys(rm); len(available) > 0 {
			keyIndex = available[0]
		} else {
			asSpectator = true
		}
	}

	rm.players[params.PlayerId] = &room.Player{
		Id:          params.PlayerId,
		Name:        params.PlayerName,
		KeyIndex:    keyIndex,
		IsSpectator: asSpectator,
		JoinedAt:    r.now(),
	}
	rm.order = append(rm.order, params.PlayerId)
	rm.lastActivity = r.now()

	return rm.snapshotLocked(), keyIndex, nil
}

// LeavePlayer removes the player from its room via the reverse map. When the
// room becomes empty it is deleted and deleted=true is returned with a zero
// snapshot.
func (r *repo) LeavePlayer(ctx context.Context, playerId string) (room.Room, string, bool, error) {
	r.mu.Lock()
	roomId, ok := r.playerRoom[playerId]
	if !ok {
		r.mu.Unlock()
		return room.Room{}, "", false, room.ErrPlayerNotFound
	}
	delete(r.playerRoom, playerId)

	rm, ok := r.rooms[roomId]
	if !ok {
		r.mu.Unlock()
		return room.Room{}, roomId, false, room.ErrRoomNotFound
	}

	rm.mu.Lock()
	delete(rm.players, playerId)
	for i, id := range rm.order {
		if id == playerId {
			rm.order = append(rm.order[:i], rm.order[i+1:]...)
			break
		}
	}
	rm.lastActivity = r.now()

	if len(rm.players) == 0 {
		delete(r.rooms, roomId)
		rm.mu.Unlock()
		r.mu.Unlock()
		r.logger.InfoContext(ctx, "empty room deleted", "room_id", roomId)
		return room.Room{}, roomId, true, nil
	}
	r.mu.Unlock()

	snapshot := rm.snapshotLocked()
	rm.mu.Unlock()

	return snapshot, roomId, false, nil
}

func (r *repo) GetRoom(ctx context.Context, roomId string) (room.Room, error) {
	rm, ok := r.lockRoom(roomId)
	if !ok {
		return room.Room{}, room.ErrRoomNotFound
	}
	defer rm.mu.Unlock()

	return rm.snapshotLocked(), nil
}

func (r *repo) RoomExists(ctx context.Context, roomId string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[roomId]
	return ok
}

func (r *repo) GetPlayerRoomId(ctx context.Context, playerId string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomId, ok := r.playerRoom[playerId]
	if !ok {
		return "", room.ErrPlayerNotFound
	}

	return roomId, nil
}

// SetPlayerConnected updates a player's transport connectivity flag.
func (r *repo) SetPlayerConnected(ctx context.Context, playerId string, connected bool) error {
	r.mu.RLock()
	roomId, ok := r.playerRoom[playerId]
	r.mu.RUnlock()
	if !ok {
		return room.ErrPlayerNotFound
	}

	rm, ok := r.lockRoom(roomId)
	if !ok {
		return room.ErrRoomNotFound
	}
	defer rm.mu.Unlock()

	p, ok := rm.players[playerId]
	if !ok {
		return room.ErrPlayerNotFound
	}
	p.IsConnected = connected

	return nil
}

// PressKey validates a key press against the sender's assignment and the
// active scale, logs it to an in-progress recording, and returns the event
// for broadcast. Validation failures leave the room untouched.
func (r *repo) PressKey(ctx context.Context, params *room.PressKeyParams) (room.Event, error) {
	rm, ok := r.lockRoom(params.RoomId)
	if !ok {
		return room.Event{}, room.ErrRoomNotFound
	}
	defer rm.mu.Unlock()

	p, ok := rm.players[params.PlayerId]
	if !ok {
		return room.Event{}, room.ErrPlayerNotFound
	}
	if p.KeyIndex != params.KeyIndex {
		return room.Event{}, room.ErrKeyNotOwned
	}
	if p.IsSpectator {
		return room.Event{}, room.ErrSpectator
	}
	if !scale.Contains(rm.scaleName, params.KeyIndex) {
		return room.Event{}, room.ErrKeyNotInScale
	}

	now := r.now()
	event := room.Event{
		Type:      room.EventKeyPress,
		Timestamp: now.UnixMilli(),
		KeyPress: &room.KeyPress{
			KeyIndex:   params.KeyIndex,
			PlayerId:   params.PlayerId,
			PlayerName: p.Name,
			Frequency:  params.Frequency,
		},
	}
	rm.appendEventLocked(event)
	rm.lastActivity = now

	return event, nil
}

// SweepInactiveRooms deletes rooms idle longer than threshold and returns
// the deleted room ids. Candidates are collected under the registry read
// lock; last activity is re-checked under each room's own lock before
// deletion, so a room that saw a late join survives.
func (r *repo) SweepInactiveRooms(ctx context.Context, threshold time.Duration) []string {
	cutoff := r.now().Add(-threshold)

	r.mu.RLock()
	candidates := make([]string, 0)
	for roomId, rm := range r.rooms {
		rm.mu.Lock()
		stale := rm.lastActivity.Before(cutoff)
		rm.mu.Unlock()
		if stale {
			candidates = append(candidates, roomId)
		}
	}
	r.mu.RUnlock()

	deleted := make([]string, 0, len(candidates))
	for _, roomId := range candidates {
		r.mu.Lock()
		rm, ok := r.rooms[roomId]
		if !ok {
			r.mu.Unlock()
			continue
		}

		rm.mu.Lock()
		if !rm.lastActivity.Before(cutoff) {
			rm.mu.Unlock()
			r.mu.Unlock()
			continue
		}

		delete(r.rooms, roomId)
		for playerId := range rm.players {
			delete(r.playerRoom, playerId)
		}
		rm.mu.Unlock()
		r.mu.Unlock()

		r.logger.InfoContext(ctx, "inactive room deleted", "room_id", roomId)
		deleted = append(deleted, roomId)
	}

	return deleted
}
