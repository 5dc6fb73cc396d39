// Package idmap keeps the bijection between local cell ids and the ids
// assigned by the collaboration backend.
package idmap

import "sync"

// Pair одна связь local id <-> remote id
type Pair struct {
	LocalID  string
	RemoteID string
}

// Map двусторонний словарь идентификаторов ячеек.
// Обе стороны всегда взаимно обратны: каждый local id связан не более чем с одним
// remote id и наоборот.
type Map struct {
	toRemote map[string]string
	toLocal  map[string]string
	mu       sync.RWMutex
}

// New создает пустой словарь
func New() *Map {
	return &Map{
		toRemote: make(map[string]string),
		toLocal:  make(map[string]string),
	}
}

// Put связывает localID и remoteID. Прежние связи, в которых участвует
// любой из идентификаторов, удаляются.
func (m *Map) Put(localID, remoteID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldRemote, ok := m.toRemote[localID]; ok {
		delete(m.toLocal, oldRemote)
	}
	if oldLocal, ok := m.toLocal[remoteID]; ok {
		delete(m.toRemote, oldLocal)
	}
	m.toRemote[localID] = remoteID
	m.toLocal[remoteID] = localID
}

// RemoveByLocal удаляет связь по local id; отсутствие связи не ошибка
func (m *Map) RemoveByLocal(localID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if remoteID, ok := m.toRemote[localID]; ok {
		delete(m.toLocal, remoteID)
		delete(m.toRemote, localID)
	}
}

// RemoveByRemote удаляет связь по remote id; отсутствие связи не ошибка
func (m *Map) RemoveByRemote(remoteID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if localID, ok := m.toLocal[remoteID]; ok {
		delete(m.toRemote, localID)
		delete(m.toLocal, remoteID)
	}
}

// LookupRemote returns the remote id paired with localID.
func (m *Map) LookupRemote(localID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.toRemote[localID]
	return id, ok
}

// LookupLocal returns the local id paired with remoteID.
func (m *Map) LookupLocal(remoteID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.toLocal[remoteID]
	return id, ok
}

// Contains reports whether localID has a remote counterpart.
func (m *Map) Contains(localID string) bool {
	_, ok := m.LookupRemote(localID)
	return ok
}

// RemoteOrLocal returns the remote id for localID, or localID itself when unmapped.
// Cells loaded on join carry remote ids as their local ids.
func (m *Map) RemoteOrLocal(localID string) string {
	if id, ok := m.LookupRemote(localID); ok {
		return id
	}
	return localID
}

// LocalOrRemote returns the local id for remoteID, or remoteID itself when unmapped.
func (m *Map) LocalOrRemote(remoteID string) string {
	if id, ok := m.LookupLocal(remoteID); ok {
		return id
	}
	return remoteID
}

// Len returns the number of pairs.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.toRemote)
}

// Reset удаляет все связи (при выходе из сессии)
func (m *Map) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.toRemote)
	clear(m.toLocal)
}

// Pairs возвращает снимок всех связей
func (m *Map) Pairs() []Pair {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pairs := make([]Pair, 0, len(m.toRemote))
	for local, remote := range m.toRemote {
		pairs = append(pairs, Pair{LocalID: local, RemoteID: remote})
	}
	return pairs
}
