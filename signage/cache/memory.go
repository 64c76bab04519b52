package cache

import "sync"

// entry pairs an image's metadata with its optionally-loaded bytes. A nil
// data slice means the image is known but not yet processed or loaded.
type entry[M any] struct {
	id   string
	meta M
	data []byte
}

// memoryCache is the fast tier: a process-lifetime map guarded by one lock.
// Insertion order is preserved so listings are stable across calls. Entries
// are added and refreshed, never evicted.
type memoryCache[M any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[M]
	order   []string
}

func newMemoryCache[M any]() *memoryCache[M] {
	return &memoryCache[M]{entries: map[string]*entry[M]{}}
}

// putMeta upserts an entry's metadata, leaving any loaded bytes in place.
func (m *memoryCache[M]) putMeta(id string, meta M) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[id]; ok {
		e.meta = meta
		return
	}

	m.entries[id] = &entry[M]{id: id, meta: meta}
	m.order = append(m.order, id)
}

// setData attaches processed bytes to an entry, creating it if the metadata
// was never listed (lazy-fetch path).
func (m *memoryCache[M]) setData(id string, meta M, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[id]; ok {
		e.meta = meta
		e.data = data
		return
	}

	m.entries[id] = &entry[M]{id: id, meta: meta, data: data}
	m.order = append(m.order, id)
}

func (m *memoryCache[M]) get(id string) (M, []byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		var zero M
		return zero, nil, false
	}
	return e.meta, e.data, true
}

// snapshot returns entries in insertion order.
func (m *memoryCache[M]) snapshot() []entry[M] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entry[M], 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.entries[id])
	}
	return out
}

func (m *memoryCache[M]) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
