package room

import (
	"errors"

	"github.com/gorilla/websocket"

	"github.com/pianoparty/server/internal/repository/room"
)

// getConns collects the live connections of a room snapshot's players.
// Players whose transport has not attached yet are skipped.
func (s service) getConns(snapshot room.Room) []*websocket.Conn {
	conns := make([]*websocket.Conn, 0, len(snapshot.Players))
	for _, p := range snapshot.Players {
		conn, err := s.connRepo.GetConn(p.Id)
		if err != nil {
			continue
		}

		conns = append(conns, conn)
	}

	return conns
}

func toRoomState(snapshot room.Room) RoomState {
	players := make([]Player, 0, len(snapshot.Players))
	for _, p := range snapshot.Players {
		players = append(players, Player{
			Id:          p.Id,
			Name:        p.Name,
			KeyIndex:    p.KeyIndex,
			IsConnected: p.IsConnected,
			IsSpectator: p.IsSpectator,
		})
	}

	recordings := make([]RecordingInfo, 0, len(snapshot.Recordings))
	for _, r := range snapshot.Recordings {
		recordings = append(recordings, toRecordingInfo(r))
	}

	return RoomState{
		Id:            snapshot.Id,
		Players:       players,
		Tempo:         snapshot.Tempo,
		Volume:        snapshot.Volume,
		IsPlaying:     snapshot.IsPlaying,
		IsRecording:   snapshot.IsRecording,
		IsMetronomeOn: snapshot.IsMetronomeOn,
		Scale:         snapshot.Scale,
		Recordings:    recordings,
	}
}

func toRecordingInfo(r room.Recording) RecordingInfo {
	return RecordingInfo{
		Id:          r.Id,
		Name:        r.Name,
		Duration:    r.Duration,
		CreatedAt:   r.CreatedAt,
		PlayerCount: r.PlayerCount,
	}
}

func toRecording(r room.Recording) Recording {
	return Recording{
		Id:          r.Id,
		Name:        r.Name,
		Duration:    r.Duration,
		Events:      r.Events,
		CreatedAt:   r.CreatedAt,
		PlayerCount: r.PlayerCount,
	}
}

// mapError translates repository sentinels into the service error taxonomy.
func mapError(err error) error {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return ErrRoomNotFound
	case errors.Is(err, room.ErrPlayerNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, room.ErrRecordingNotFound):
		return ErrRecordingNotFound
	case errors.Is(err, room.ErrKeyNotOwned), errors.Is(err, room.ErrSpectator):
		return ErrInvalidKeyPress
	case errors.Is(err, room.ErrKeyNotInScale):
		return ErrKeyNotInScale
	case errors.Is(err, room.ErrNotRecording):
		return ErrNotRecording
	default:
		return err
	}
}
