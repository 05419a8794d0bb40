package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pianoparty/server/internal/service/room"
	"github.com/pianoparty/server/pkg/rest"
)

// joinRoom upgrades the request to a websocket, registers the player in
// the room and serves its messages until the connection drops. The player
// leaves the room when the handler returns.
func (c controller) joinRoom(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")
	if roomId == "" {
		c.logger.DebugContext(r.Context(), "empty room id")
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "room id is required"})
		return
	}

	playerName := r.URL.Query().Get("name")
	if playerName == "" {
		c.logger.DebugContext(r.Context(), "empty player name")
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "name is required"})
		return
	}
	if len(playerName) > 32 {
		playerName = playerName[:32]
	}

	asSpectator := r.URL.Query().Get("spectator") == "true"

	joinRoomResponse, err := c.roomService.JoinRoom(r.Context(), &room.JoinRoomParams{
		RoomId:      roomId,
		PlayerName:  playerName,
		AsSpectator: asSpectator,
	})
	if err != nil {
		c.logger.DebugContext(r.Context(), "failed to join room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to join room"})
		return
	}
	defer c.disconnect(r.Context(), joinRoomResponse.PlayerId)

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	if err := c.roomService.ConnectPlayer(r.Context(), &room.ConnectPlayerParams{
		Conn:     conn,
		PlayerId: joinRoomResponse.PlayerId,
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to connect player", "error", err)
		return
	}

	roomState, err := c.roomService.GetRoomState(r.Context(), roomId)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to get room state", "error", err)
		return
	}

	if err := c.writeToConn(r.Context(), conn, &Output{
		Type: "JOINED",
		Payload: map[string]any{
			"player_id":    joinRoomResponse.PlayerId,
			"key_index":    joinRoomResponse.KeyIndex,
			"is_spectator": joinRoomResponse.IsSpectator,
			"room":         roomState,
		},
	}); err != nil {
		c.logger.WarnContext(r.Context(), "failed to write json", "error", err)
		return
	}

	if err := c.broadcastRoomUpdated(r.Context(), joinRoomResponse.Conns, &roomState); err != nil {
		c.logger.WarnContext(r.Context(), "failed to broadcast", "error", err)
		return
	}

	ctx := context.WithValue(r.Context(), roomIdCtxKey, roomId)
	ctx = context.WithValue(ctx, playerIdCtxKey, joinRoomResponse.PlayerId)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(r.Context(), "connection closed", "error", err)
	}
}

func (c controller) disconnect(ctx context.Context, playerId string) {
	disconnectResp, err := c.roomService.DisconnectPlayer(ctx, &room.DisconnectPlayerParams{
		PlayerId: playerId,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "failed to disconnect player", "error", err)
		return
	}

	if !disconnectResp.IsRoomDeleted {
		if err := c.broadcastRoomUpdated(ctx, disconnectResp.Conns, &disconnectResp.Room); err != nil {
			c.logger.WarnContext(ctx, "failed to broadcast", "error", err)
		}
	}
}
