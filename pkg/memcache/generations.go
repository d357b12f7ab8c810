package mem

import "sync"

// GenerationToken identifies one itinerary build for a trip key.
type GenerationToken struct {
	Key string
	Seq uint64
}

// GenerationTracker hands out increasing sequence numbers per key. Only the
// most recently issued token for a key is current; older ones are stale and
// their results must be discarded.
type GenerationTracker struct {
	mu   sync.Mutex
	seqs map[string]uint64
}

func NewGenerationTracker() *GenerationTracker {
	return &GenerationTracker{seqs: make(map[string]uint64)}
}

// Begin supersedes any in-flight build for key.
func (g *GenerationTracker) Begin(key string) GenerationToken {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seqs[key]++
	return GenerationToken{Key: key, Seq: g.seqs[key]}
}

func (g *GenerationTracker) IsLatest(t GenerationToken) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seqs[t.Key] == t.Seq
}
