package controller

import "context"

type contextKey int

const (
	roomIdCtxKey contextKey = iota
	playerIdCtxKey
)

func (c controller) getRoomIdFromCtx(ctx context.Context) string {
	roomId, ok := ctx.Value(roomIdCtxKey).(string)
	if !ok {
		return ""
	}

	return roomId
}

func (c controller) getPlayerIdFromCtx(ctx context.Context) string {
	playerId, ok := ctx.Value(playerIdCtxKey).(string)
	if !ok {
		return ""
	}

	return playerId
}
