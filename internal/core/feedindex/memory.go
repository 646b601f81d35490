package feedindex

import (
	"context"
	"sort"
	"sync"
)

// MemoryIndex is an in-process Index. Each owner's entries are kept sorted
// newest first. Contents are lost on restart.
type MemoryIndex struct {
	feeds map[int64]*memoryFeed
	mu    sync.RWMutex
}

type memoryFeed struct {
	members map[int64]struct{}
	entries []Entry
}

// NewMemoryIndex creates an empty in-memory feed index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		feeds: make(map[int64]*memoryFeed),
	}
}

// Insert adds entry to ownerID's feed, keeping newest-first order
func (m *MemoryIndex) Insert(ctx context.Context, ownerID int64, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	feed, ok := m.feeds[ownerID]
	if !ok {
		feed = &memoryFeed{members: make(map[int64]struct{})}
		m.feeds[ownerID] = feed
	}

	if _, exists := feed.members[entry.PostID]; exists {
		return nil
	}

	pos := sort.Search(len(feed.entries), func(i int) bool {
		return newer(entry, feed.entries[i])
	})
	feed.entries = append(feed.entries, Entry{})
	copy(feed.entries[pos+1:], feed.entries[pos:])
	feed.entries[pos] = entry
	feed.members[entry.PostID] = struct{}{}

	return nil
}

// RangeByScore scans ownerID's feed from below downwards
func (m *MemoryIndex) RangeByScore(ctx context.Context, ownerID int64, below *Bound, floor int64, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	feed, ok := m.feeds[ownerID]
	if !ok {
		return nil, nil
	}

	start := 0
	if below != nil {
		start = sort.Search(len(feed.entries), func(i int) bool {
			return feed.entries[i].Before(*below)
		})
	}

	var result []Entry
	for i := start; i < len(feed.entries) && len(result) < limit; i++ {
		if feed.entries[i].Score < floor {
			break
		}
		result = append(result, feed.entries[i])
	}
	return result, nil
}

// Len returns the number of entries in ownerID's feed
func (m *MemoryIndex) Len(ownerID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if feed, ok := m.feeds[ownerID]; ok {
		return len(feed.entries)
	}
	return 0
}
