package engine

const (
	boundLower = 1 << iota
	boundUpper
)

const boundExact = boundLower | boundUpper

const defaultCacheCapacity = 10_000

type transKey struct {
	signature  string
	depth      int
	maximizing bool
}

type transEntry struct {
	score int
	depth int
	bound int
}

// transTable memoizes search results for one engine.
// It never holds more than capacity entries. Once full it keeps what it
// has and drops new keys; the engine flushes it between searches.
type transTable struct {
	capacity int
	entries  map[transKey]transEntry
	flushes  int
	dropped  int
}

func newTransTable(capacity int) *transTable {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &transTable{
		capacity: capacity,
		entries:  make(map[transKey]transEntry, capacity),
	}
}

func (tt *transTable) Size() int {
	return len(tt.entries)
}

func (tt *transTable) Capacity() int {
	return tt.capacity
}

func (tt *transTable) Clear() {
	if len(tt.entries) == 0 {
		return
	}
	tt.entries = make(map[transKey]transEntry, tt.capacity)
	tt.flushes++
}

func (tt *transTable) Read(key transKey) (score, depth, bound int, ok bool) {
	var entry, found = tt.entries[key]
	if !found {
		return
	}
	return entry.score, entry.depth, entry.bound, true
}

func (tt *transTable) Update(key transKey, score, depth, bound int) {
	if _, found := tt.entries[key]; !found && len(tt.entries) >= tt.capacity {
		tt.dropped++
		return
	}
	tt.entries[key] = transEntry{
		score: score,
		depth: depth,
		bound: bound,
	}
}
