package controller

import (
	"context"

	"github.com/gorilla/websocket"

	"github.com/pianoparty/server/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.wsRequestIdWSMw())
	mux.Use(c.loggerWSMw())

	mux.OnError(func(ctx context.Context, conn *websocket.Conn, err error) {
		c.logger.DebugContext(ctx, "websocket handler error", "error", err)
		if err := c.writeError(ctx, conn, err); err != nil {
			c.logger.WarnContext(ctx, "failed to write error", "error", err)
		}
	})

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)

	// instrument
	wsrouter.Handle(mux, "PRESS_KEY", c.handlePressKey)

	// settings
	wsrouter.Handle(mux, "UPDATE_TEMPO", c.handleUpdateTempo)
	wsrouter.Handle(mux, "UPDATE_VOLUME", c.handleUpdateVolume)
	wsrouter.Handle(mux, "UPDATE_SCALE", c.handleUpdateScale)
	wsrouter.Handle(mux, "TOGGLE_METRONOME", c.handleToggleMetronome)
	wsrouter.Handle(mux, "UPDATE_PLAYING", c.handleUpdatePlaying)

	// recording
	wsrouter.Handle(mux, "START_RECORDING", c.handleStartRecording)
	wsrouter.Handle(mux, "STOP_RECORDING", c.handleStopRecording)
	wsrouter.Handle(mux, "PLAY_RECORDING", c.handlePlayRecording)

	return mux
}
