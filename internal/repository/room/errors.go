package room

import "errors"

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrRecordingNotFound = errors.New("recording not found")
	ErrKeyNotOwned       = errors.New("key is not assigned to player")
	ErrSpectator         = errors.New("player is a spectator")
	ErrKeyNotInScale     = errors.New("key is not in the active scale")
	ErrNotRecording      = errors.New("room is not recording")
)
