package room

import (
	"github.com/gorilla/websocket"

	"github.com/pianoparty/server/internal/repository/room"
)

type Player struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	KeyIndex    int    `json:"key_index"`
	IsConnected bool   `json:"is_connected"`
	IsSpectator bool   `json:"is_spectator"`
}

// RecordingInfo is a recording without its event list, as listed in room
// snapshots. Event buffers of in-progress recordings are never exposed.
type RecordingInfo struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Duration    int64  `json:"duration"`
	CreatedAt   int64  `json:"created_at"`
	PlayerCount int    `json:"player_count"`
}

// Recording carries the full event list for playback.
type Recording struct {
	Id          string       `json:"id"`
	Name        string       `json:"name"`
	Duration    int64        `json:"duration"`
	Events      []room.Event `json:"events"`
	CreatedAt   int64        `json:"created_at"`
	PlayerCount int          `json:"player_count"`
}

// RoomState is the externally visible room snapshot.
type RoomState struct {
	Id            string          `json:"id"`
	Players       []Player        `json:"players"`
	Tempo         int             `json:"tempo"`
	Volume        float64         `json:"volume"`
	IsPlaying     bool            `json:"is_playing"`
	IsRecording   bool            `json:"is_recording"`
	IsMetronomeOn bool            `json:"is_metronome_on"`
	Scale         string          `json:"scale"`
	Recordings    []RecordingInfo `json:"recordings"`
}

type KeyPressed struct {
	KeyIndex   int     `json:"key_index"`
	PlayerId   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Frequency  float64 `json:"frequency"`
	Timestamp  int64   `json:"timestamp"`
}

// KeyAssignment is a per-player key notification emitted after a scale
// change.
type KeyAssignment struct {
	Conn        *websocket.Conn `json:"-"`
	PlayerId    string          `json:"player_id"`
	KeyIndex    int             `json:"key_index"`
	IsSpectator bool            `json:"is_spectator"`
}
