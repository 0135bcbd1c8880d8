package searcher

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"knights/game"
)

type Flag uint8

const (
	flagNone Flag = iota
	Exact
	LowerBound
	UpperBound
)

const (
	numShards = 64
	// rough per-entry cost of a map slot plus a key for boards up to 12x12
	entrySize = 128

	minTableEntries = 1 << 16

	DefaultTableMemoryFraction = 0.05
)

type TableEntry struct {
	Score   int
	Move    game.Square
	HasMove bool
	Flag    Flag
}

type tableKey struct {
	state game.StateKey
	depth int
}

type shard struct {
	sync.RWMutex
	entries map[tableKey]TableEntry
}

// TranspositionTable caches search results by state and remaining depth. It
// is safe for concurrent use; when two searches store the same key the last
// write wins, and either entry is valid for its flag.
type TranspositionTable struct {
	shards   [numShards]shard
	shardCap int

	lookups atomic.Uint64
	hits    atomic.Uint64
	created atomic.Uint64
	evicted atomic.Uint64
}

type TableStats struct {
	Lookups uint64
	Hits    uint64
	Created uint64
	Evicted uint64
}

// NewTranspositionTable sizes the table to a fraction of system memory.
func NewTranspositionTable(fractionOfMemory float64) *TranspositionTable {
	totalMem := memory.TotalMemory()
	capacity := int(fractionOfMemory * float64(totalMem) / entrySize)
	if capacity < minTableEntries {
		capacity = minTableEntries
	}
	log.Debug().Int("capacity", capacity).
		Uint64("total-system-memory-bytes", totalMem).
		Float64("fraction", fractionOfMemory).
		Msg("transposition-table-size")
	return NewTranspositionTableWithCapacity(capacity)
}

func NewTranspositionTableWithCapacity(capacity int) *TranspositionTable {
	t := &TranspositionTable{shardCap: (capacity + numShards - 1) / numShards}
	if t.shardCap < 1 {
		t.shardCap = 1
	}
	for i := range t.shards {
		t.shards[i].entries = make(map[tableKey]TableEntry)
	}
	return t
}

func (t *TranspositionTable) shardFor(key game.StateKey) *shard {
	return &t.shards[xxhash.Sum64String(string(key))%numShards]
}

func (t *TranspositionTable) lookup(key game.StateKey, depth int) (TableEntry, bool) {
	s := t.shardFor(key)
	s.RLock()
	entry, ok := s.entries[tableKey{key, depth}]
	s.RUnlock()

	t.lookups.Add(1)
	if ok {
		t.hits.Add(1)
	}
	return entry, ok
}

func (t *TranspositionTable) store(key game.StateKey, depth int, entry TableEntry) {
	s := t.shardFor(key)
	s.Lock()
	defer s.Unlock()
	if len(s.entries) >= t.shardCap {
		// A full shard starts over. Losing entries costs time, never results.
		t.evicted.Add(uint64(len(s.entries)))
		clear(s.entries)
	}
	s.entries[tableKey{key, depth}] = entry
	t.created.Add(1)
}

// Reset drops all entries and counters.
func (t *TranspositionTable) Reset() {
	for i := range t.shards {
		t.shards[i].Lock()
		clear(t.shards[i].entries)
		t.shards[i].Unlock()
	}
	t.lookups.Store(0)
	t.hits.Store(0)
	t.created.Store(0)
	t.evicted.Store(0)
}

func (t *TranspositionTable) Len() int {
	n := 0
	for i := range t.shards {
		t.shards[i].RLock()
		n += len(t.shards[i].entries)
		t.shards[i].RUnlock()
	}
	return n
}

func (t *TranspositionTable) Stats() TableStats {
	return TableStats{
		Lookups: t.lookups.Load(),
		Hits:    t.hits.Load(),
		Created: t.created.Load(),
		Evicted: t.evicted.Load(),
	}
}
