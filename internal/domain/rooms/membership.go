package rooms

import (
	"strconv"
	"sync"
)

// Admin is the room every admin connection joins on connect.
const Admin = "admin"

// User returns the per-subject room name. All of a subject's connections join it.
func User(subjectID string) string {
	return "user:" + subjectID
}

// Order returns the per-order tracking room name.
func Order(orderID int64) string {
	return "order:" + strconv.FormatInt(orderID, 10)
}

// Index is the many-to-many membership map between live connections and rooms.
// It records associations only; connection objects are owned by the transport.
// A room with no members does not exist.
type Index struct {
	mu     sync.RWMutex
	byRoom map[string]map[string]bool // room -> session ids
	byConn map[string]map[string]bool // session id -> rooms
}

// NewIndex creates an empty membership index.
func NewIndex() *Index {
	return &Index{
		byRoom: make(map[string]map[string]bool),
		byConn: make(map[string]map[string]bool),
	}
}

// Join adds the connection to the room. Joining twice is idempotent.
func (idx *Index) Join(sessionID, room string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.byRoom[room] == nil {
		idx.byRoom[room] = make(map[string]bool)
	}
	idx.byRoom[room][sessionID] = true

	if idx.byConn[sessionID] == nil {
		idx.byConn[sessionID] = make(map[string]bool)
	}
	idx.byConn[sessionID][room] = true
}

// Leave removes the connection from the room. Leaving a room the connection
// never joined is a no-op.
func (idx *Index) Leave(sessionID, room string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeLocked(sessionID, room)
}

// Drop removes the connection from every room it joined, atomically.
func (idx *Index) Drop(sessionID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for room := range idx.byConn[sessionID] {
		idx.removeLocked(sessionID, room)
	}
}

// Members returns the session ids currently in the room.
func (idx *Index) Members(room string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	members := make([]string, 0, len(idx.byRoom[room]))
	for id := range idx.byRoom[room] {
		members = append(members, id)
	}
	return members
}

// RoomsOf returns the rooms the connection currently belongs to.
func (idx *Index) RoomsOf(sessionID string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	list := make([]string, 0, len(idx.byConn[sessionID]))
	for room := range idx.byConn[sessionID] {
		list = append(list, room)
	}
	return list
}

// Contains reports whether the connection is in the room.
func (idx *Index) Contains(sessionID, room string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.byRoom[room][sessionID]
}

func (idx *Index) removeLocked(sessionID, room string) {
	if members, ok := idx.byRoom[room]; ok {
		delete(members, sessionID)
		if len(members) == 0 {
			delete(idx.byRoom, room)
		}
	}
	if joined, ok := idx.byConn[sessionID]; ok {
		delete(joined, room)
		if len(joined) == 0 {
			delete(idx.byConn, sessionID)
		}
	}
}
