package inmemory

import (
	"context"

	"github.com/pianoparty/server/internal/repository/room"
	"github.com/pianoparty/server/pkg/scale"
)

const (
	minTempo = 60
	maxTempo = 200
)

// UpdateSettings merges a partial delta into the room. A scale change
// triggers key reassignment after the new value is applied. While a
// recording is active, one event is logged per changed field. Unknown scale
// names fall back to the default scale instead of failing.
func (r *repo) UpdateSettings(ctx context.Context, params *room.UpdateSettingsParams) (room.Room, error) {
	rm, ok := r.lockRoom(params.RoomId)
	if !ok {
		return room.Room{}, room.ErrRoomNotFound
	}
	defer rm.mu.Unlock()

	now := r.now().UnixMilli()

	if params.Tempo != nil {
		rm.tempo = clamp(*params.Tempo, minTempo, maxTempo)
		tempo := rm.tempo
		rm.appendEventLocked(room.Event{Type: room.EventTempoChange, Timestamp: now, Tempo: &tempo})
	}

	if params.Volume != nil {
		rm.volume = clampFloat(*params.Volume, 0, 1)
		volume := rm.volume
		rm.appendEventLocked(room.Event{Type: room.EventVolumeChange, Timestamp: now, Volume: &volume})
	}

	if params.Scale != nil {
		name := *params.Scale
		if !scale.Exists(name) {
			r.logger.WarnContext(ctx, "unknown scale, using fallback", "scale", name, "room_id", params.RoomId)
			name = scale.Fallback
		}

		if name != rm.scaleName {
			rm.scaleName = name
			reassignForScaleChange(rm)
		}
		rm.appendEventLocked(room.Event{Type: room.EventScaleChange, Timestamp: now, Scale: &name})
	}

	if params.MetronomeOn != nil {
		rm.isMetronomeOn = *params.MetronomeOn
		on := rm.isMetronomeOn
		rm.appendEventLocked(room.Event{Type: room.EventMetronomeToggle, Timestamp: now, MetronomeOn: &on})
	}

	if params.IsPlaying != nil {
		rm.isPlaying = *params.IsPlaying
	}

	rm.lastActivity = r.now()

	return rm.snapshotLocked(), nil
}

// ToggleMetronome flips the metronome flag atomically.
func (r *repo) ToggleMetronome(ctx context.Context, roomId string) (room.Room, error) {
	rm, ok := r.lockRoom(roomId)
	if !ok {
		return room.Room{}, room.ErrRoomNotFound
	}
	defer rm.mu.Unlock()

	rm.isMetronomeOn = !rm.isMetronomeOn
	on := rm.isMetronomeOn
	rm.appendEventLocked(room.Event{Type: room.EventMetronomeToggle, Timestamp: r.now().UnixMilli(), MetronomeOn: &on})
	rm.lastActivity = r.now()

	return rm.snapshotLocked(), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
