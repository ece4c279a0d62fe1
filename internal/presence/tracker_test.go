package presence

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJoinAndSnapshot(t *testing.T) {
	tr := NewTracker()
	channel, alice, bob := uuid.New(), uuid.New(), uuid.New()

	changed, snapshot := tr.Join(channel, alice)
	assert.True(t, changed)
	assert.ElementsMatch(t, []uuid.UUID{alice}, snapshot)

	changed, snapshot = tr.Join(channel, bob)
	assert.True(t, changed)
	assert.ElementsMatch(t, []uuid.UUID{alice, bob}, snapshot)
}

func TestSecondConnectionCollapsesToOneEntry(t *testing.T) {
	tr := NewTracker()
	channel, alice := uuid.New(), uuid.New()

	tr.Join(channel, alice)
	changed, snapshot := tr.Join(channel, alice)
	assert.False(t, changed)
	assert.ElementsMatch(t, []uuid.UUID{alice}, snapshot)

	// First connection drops: still present through the second one.
	changed, snapshot = tr.Leave(channel, alice)
	assert.False(t, changed)
	assert.ElementsMatch(t, []uuid.UUID{alice}, snapshot)

	// Last connection drops: gone.
	changed, snapshot = tr.Leave(channel, alice)
	assert.True(t, changed)
	assert.Empty(t, snapshot)
}

func TestLeaveAbsentUserIsNoOp(t *testing.T) {
	tr := NewTracker()
	channel := uuid.New()

	changed, snapshot := tr.Leave(channel, uuid.New())
	assert.False(t, changed)
	assert.Empty(t, snapshot)

	tr.Join(channel, uuid.New())
	changed, _ = tr.Leave(channel, uuid.New())
	assert.False(t, changed)
}

func TestReconnectRestoresPresence(t *testing.T) {
	tr := NewTracker()
	channel, user := uuid.New(), uuid.New()

	tr.Join(channel, user)
	tr.Leave(channel, user)
	assert.Empty(t, tr.Snapshot(channel))

	tr.Join(channel, user)
	assert.ElementsMatch(t, []uuid.UUID{user}, tr.Snapshot(channel))
}

func TestChannelsAreIndependent(t *testing.T) {
	tr := NewTracker()
	ch1, ch2, user := uuid.New(), uuid.New(), uuid.New()

	tr.Join(ch1, user)
	assert.ElementsMatch(t, []uuid.UUID{user}, tr.Snapshot(ch1))
	assert.Empty(t, tr.Snapshot(ch2))

	tr.Leave(ch2, user)
	assert.ElementsMatch(t, []uuid.UUID{user}, tr.Snapshot(ch1))
}

func TestConcurrentJoinLeave(t *testing.T) {
	tr := NewTracker()
	channel := uuid.New()
	users := make([]uuid.UUID, 50)
	for i := range users {
		users[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(u uuid.UUID) {
			defer wg.Done()
			tr.Join(channel, u)
			tr.Join(channel, u)
			tr.Leave(channel, u)
		}(u)
	}
	wg.Wait()

	// Each user still holds one connection.
	assert.Len(t, tr.Snapshot(channel), len(users))
}
