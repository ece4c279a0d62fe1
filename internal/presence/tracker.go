package presence

import (
	"sync"

	"github.com/google/uuid"
)

// Tracker holds the ephemeral per-channel roster. Each channel gets its own
// independently locked shard so join/leave traffic never contends across
// channels. Users are refcounted by connection: a user with two open
// connections to the same channel appears once and stays present until the
// last connection leaves.
type Tracker struct {
	mu     sync.RWMutex
	shards map[uuid.UUID]*shard
}

type shard struct {
	mu    sync.Mutex
	conns map[uuid.UUID]int
}

func NewTracker() *Tracker {
	return &Tracker{shards: make(map[uuid.UUID]*shard)}
}

// Join records one connection for user in channel. changed is true when the
// user was not previously present; snapshot is the roster after the join.
func (t *Tracker) Join(channelID, userID uuid.UUID) (changed bool, snapshot []uuid.UUID) {
	s := t.shard(channelID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[userID]++
	return s.conns[userID] == 1, s.snapshotLocked()
}

// Leave drops one connection for user in channel. Leaving while absent is a
// no-op. changed is true when the user's last connection left.
func (t *Tracker) Leave(channelID, userID uuid.UUID) (changed bool, snapshot []uuid.UUID) {
	t.mu.RLock()
	s, ok := t.shards[channelID]
	t.mu.RUnlock()
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, present := s.conns[userID]
	if !present {
		return false, s.snapshotLocked()
	}
	if n <= 1 {
		delete(s.conns, userID)
		return true, s.snapshotLocked()
	}
	s.conns[userID] = n - 1
	return false, s.snapshotLocked()
}

// Snapshot returns the distinct users currently present in channel.
func (t *Tracker) Snapshot(channelID uuid.UUID) []uuid.UUID {
	t.mu.RLock()
	s, ok := t.shards[channelID]
	t.mu.RUnlock()
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (t *Tracker) shard(channelID uuid.UUID) *shard {
	t.mu.RLock()
	s, ok := t.shards[channelID]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok = t.shards[channelID]; ok {
		return s
	}
	s = &shard{conns: make(map[uuid.UUID]int)}
	t.shards[channelID] = s
	return s
}

func (s *shard) snapshotLocked() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.conns))
	for id := range s.conns {
		ids = append(ids, id)
	}
	return ids
}
