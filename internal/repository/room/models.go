package room

import "time"

type Player struct {
	Id          string
	Name        string
	KeyIndex    int
	IsConnected bool
	IsSpectator bool
	JoinedAt    time.Time
}

type EventType string

const (
	EventKeyPress        EventType = "keyPress"
	EventTempoChange     EventType = "tempoChange"
	EventVolumeChange    EventType = "volumeChange"
	EventScaleChange     EventType = "scaleChange"
	EventMetronomeToggle EventType = "metronomeToggle"
)

type KeyPress struct {
	KeyIndex   int     `json:"key_index"`
	PlayerId   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Frequency  float64 `json:"frequency"`
}

// Event is a tagged union: exactly one variant field is set, matching Type.
// Timestamps are unix milliseconds; RelativeTime is the offset from the
// first event of the recording it belongs to.
type Event struct {
	Type         EventType `json:"type"`
	Timestamp    int64     `json:"timestamp"`
	RelativeTime int64     `json:"relative_time"`
	KeyPress     *KeyPress `json:"key_press,omitempty"`
	Tempo        *int      `json:"tempo,omitempty"`
	Volume       *float64  `json:"volume,omitempty"`
	Scale        *string   `json:"scale,omitempty"`
	MetronomeOn  *bool     `json:"metronome_on,omitempty"`
}

// Recording is immutable once materialized by StopRecording.
type Recording struct {
	Id          string  `json:"id"`
	Name        string  `json:"name"`
	Duration    int64   `json:"duration"`
	Events      []Event `json:"events"`
	CreatedAt   int64   `json:"created_at"`
	PlayerCount int     `json:"player_count"`
}

// Room is a point-in-time copy of a room's state. Players are listed in
// join order.
type Room struct {
	Id            string
	Players       []Player
	Tempo         int
	Volume        float64
	IsPlaying     bool
	IsRecording   bool
	IsMetronomeOn bool
	Scale         string
	Recordings    []Recording
	CreatedAt     time.Time
	LastActivity  time.Time
}
