package syncutil

import "sync"

// KeyedMutex serializes critical sections per string key. Entries are kept
// for the process lifetime; the key space here (channels, user/channel
// pairs) is small enough that eviction is not worth the bookkeeping.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock blocks until the key's mutex is held and returns the unlock func.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
