package inmemory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pianoparty/server/internal/repository/room"
)

// appendEventLocked logs an event into the in-progress recording buffer.
// No-op when the room is not recording. The recording's t=0 is established
// lazily by the first buffered event, not by StartRecording.
func (rm *roomState) appendEventLocked(event room.Event) {
	if !rm.isRecording {
		return
	}

	if len(rm.buffer) > 0 {
		event.RelativeTime = event.Timestamp - rm.buffer[0].Timestamp
	}
	rm.buffer = append(rm.buffer, event)
}

// StartRecording clears the event buffer and raises the recording flag.
// Calling it while already recording is an idempotent no-op: the buffer in
// progress is kept.
func (r *repo) StartRecording(ctx context.Context, roomId string) (room.Room, error) {
	rm, ok := r.lockRoom(roomId)
	if !ok {
		return room.Room{}, room.ErrRoomNotFound
	}
	defer rm.mu.Unlock()

	if !rm.isRecording {
		rm.isRecording = true
		rm.buffer = nil
		r.logger.InfoContext(ctx, "recording started", "room_id", roomId)
	}
	rm.lastActivity = r.now()

	return rm.snapshotLocked(), nil
}

// StopRecording materializes the buffered events into an immutable
// recording appended to the room's list. Fails with ErrNotRecording when no
// recording is in progress.
func (r *repo) StopRecording(ctx context.Context, params *room.StopRecordingParams) (room.Room, room.Recording, error) {
	rm, ok := r.lockRoom(params.RoomId)
	if !ok {
		return room.Room{}, room.Recording{}, room.ErrRoomNotFound
	}
	defer rm.mu.Unlock()

	if !rm.isRecording {
		return room.Room{}, room.Recording{}, room.ErrNotRecording
	}

	name := params.Name
	if name == "" {
		name = fmt.Sprintf("Recording %d", len(rm.recordings)+1)
	}

	var duration int64
	for _, event := range rm.buffer {
		if event.RelativeTime > duration {
			duration = event.RelativeTime
		}
	}

	events := make([]room.Event, len(rm.buffer))
	copy(events, rm.buffer)

	recording := room.Recording{
		Id:          uuid.NewString(),
		Name:        name,
		Duration:    duration,
		Events:      events,
		CreatedAt:   r.now().UnixMilli(),
		PlayerCount: rm.activePlayerCountLocked(),
	}

	rm.recordings = append(rm.recordings, recording)
	rm.isRecording = false
	rm.buffer = nil
	rm.lastActivity = r.now()

	r.logger.InfoContext(ctx, "recording saved",
		"room_id", params.RoomId,
		"recording_id", recording.Id,
		"events", len(recording.Events),
	)

	return rm.snapshotLocked(), recording, nil
}

func (r *repo) GetRecording(ctx context.Context, roomId, recordingId string) (room.Recording, error) {
	rm, ok := r.lockRoom(roomId)
	if !ok {
		return room.Recording{}, room.ErrRoomNotFound
	}
	defer rm.mu.Unlock()

	for _, recording := range rm.recordings {
		if recording.Id == recordingId {
			return recording, nil
		}
	}

	return room.Recording{}, room.ErrRecordingNotFound
}
