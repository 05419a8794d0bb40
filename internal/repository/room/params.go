package room

type JoinRoomParams struct {
	RoomId      string
	PlayerId    string
	PlayerName  string
	AsSpectator bool
}

type PressKeyParams struct {
	RoomId    string
	PlayerId  string
	KeyIndex  int
	Frequency float64
}

// UpdateSettingsParams is a partial settings delta: nil fields are left
// untouched.
type UpdateSettingsParams struct {
	RoomId      string
	Tempo       *int
	Volume      *float64
	Scale       *string
	MetronomeOn *bool
	IsPlaying   *bool
}

type StopRecordingParams struct {
	RoomId string
	Name   string
}
