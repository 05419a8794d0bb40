package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pianoparty/server/internal/service/room"
	"github.com/pianoparty/server/pkg/rest"
	"github.com/pianoparty/server/pkg/scale"
)

type scaleInfo struct {
	Name string `json:"name"`
	Keys []int  `json:"keys"`
}

func (c controller) getScales(w http.ResponseWriter, r *http.Request) {
	names := scale.Names()
	scales := make([]scaleInfo, 0, len(names))
	for _, name := range names {
		scales = append(scales, scaleInfo{Name: name, Keys: scale.Get(name)})
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": map[string]any{
		"scales": scales,
		"keys":   scale.Keys,
	}})
}

func (c controller) newRoomCode(w http.ResponseWriter, r *http.Request) {
	code := c.roomService.NewRoomCode(r.Context())

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": map[string]any{
		"room_id": code,
	}})
}

func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")
	if roomId == "" {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": "room id is required"})
		return
	}

	roomState, err := c.roomService.GetRoomState(r.Context(), roomId)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
			return
		}

		c.logger.WarnContext(r.Context(), "failed to get room state", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": map[string]any{
		"room": roomState,
	}})
}
