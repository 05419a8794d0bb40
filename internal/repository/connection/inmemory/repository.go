package inmemory

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pianoparty/server/internal/repository/connection"
)

// repo maps websocket connections to player ids and back.
type repo struct {
	mu       sync.RWMutex
	connList map[*websocket.Conn]string
	idList   map[string]*websocket.Conn
}

func NewRepo() *repo {
	return &repo{
		connList: make(map[*websocket.Conn]string),
		idList:   make(map[string]*websocket.Conn),
	}
}

func (r *repo) Add(conn *websocket.Conn, playerId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connList[conn] != "" || r.idList[playerId] != nil {
		return connection.ErrAlreadyExists
	}

	r.connList[conn] = playerId
	r.idList[playerId] = conn

	return nil
}

func (r *repo) RemoveByPlayerId(playerId string) (*websocket.Conn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.idList[playerId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, playerId)

	return conn, nil
}

func (r *repo) RemoveByConn(conn *websocket.Conn) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playerId, ok := r.connList[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, playerId)

	return playerId, nil
}

func (r *repo) GetConn(playerId string) (*websocket.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[playerId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

func (r *repo) GetPlayerId(conn *websocket.Conn) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	playerId, ok := r.connList[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	return playerId, nil
}
