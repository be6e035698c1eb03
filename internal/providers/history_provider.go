package providers

import (
	"sync"

	"travelogue/internal/models"
)

const defaultHistoryDepth = 256

// HistoryProviderInterface is the session history the view state is
// mirrored into. PushState records an entry without raising a navigation;
// Back and Forward move the cursor and return the fragment now current.
type HistoryProviderInterface interface {
	PushState(fragment string)
	Current() string
	Back() (string, bool)
	Forward() (string, bool)
	Snapshot() HistorySnapshot
	Restore(snapshot HistorySnapshot)
	Reset()
}

type HistorySnapshot struct {
	Entries []string `json:"entries"`
	Index   int      `json:"index"`
}

type SessionHistory struct {
	mu      sync.RWMutex
	entries []string
	index   int
	depth   int
}

func NewHistoryProvider() HistoryProviderInterface {
	return newSessionHistory(defaultHistoryDepth)
}

func newSessionHistory(depth int) *SessionHistory {
	return &SessionHistory{
		entries: []string{models.RootFragment},
		depth:   max(depth, 1),
	}
}

// PushState drops any forward entries and appends fragment. Pushing the
// current fragment again is a no-op.
func (h *SessionHistory) PushState(fragment string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.entries[h.index] == fragment {
		return
	}
	h.entries = append(h.entries[:h.index+1], fragment)
	if over := len(h.entries) - h.depth; over > 0 {
		h.entries = h.entries[over:]
	}
	h.index = len(h.entries) - 1
}

func (h *SessionHistory) Current() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.entries[h.index]
}

func (h *SessionHistory) Back() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == 0 {
		return h.entries[0], false
	}
	h.index--
	return h.entries[h.index], true
}

func (h *SessionHistory) Forward() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == len(h.entries)-1 {
		return h.entries[h.index], false
	}
	h.index++
	return h.entries[h.index], true
}

func (h *SessionHistory) Snapshot() HistorySnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return HistorySnapshot{
		Entries: append([]string(nil), h.entries...),
		Index:   h.index,
	}
}

// Restore replaces the history with snapshot. An empty or inconsistent
// snapshot resets to the root entry.
func (h *SessionHistory) Restore(snapshot HistorySnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(snapshot.Entries) == 0 || snapshot.Index < 0 || snapshot.Index >= len(snapshot.Entries) {
		h.entries = []string{models.RootFragment}
		h.index = 0
		return
	}
	entries := snapshot.Entries
	index := snapshot.Index
	if over := len(entries) - h.depth; over > 0 {
		entries = entries[over:]
		index = max(index-over, 0)
	}
	h.entries = append([]string(nil), entries...)
	h.index = index
}

func (h *SessionHistory) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = []string{models.RootFragment}
	h.index = 0
}
