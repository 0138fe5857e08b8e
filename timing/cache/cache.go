// Package cache implements the generic set-associative CacheLayer at
// the core of the simulator: address decomposition, hit/miss
// resolution under four replacement disciplines, dirty-eviction
// accounting, and downstream chaining into the next memory-hierarchy
// layer (or the implicit backing store when there is none).
package cache

import (
	"fmt"
	"math/rand"

	"github.com/VR-2024/gpu-cache-simulator/trace"
)

// Config describes one cache layer's geometry and policy. Values are
// deliberately kept as plain struct fields (not constants) so a
// memsys.Config can override them from a JSON file.
type Config struct {
	// Name identifies this layer in stats output, e.g. "L1 Cache (Per-SM)".
	Name string `json:"name"`
	// Size is the total capacity in bytes.
	Size int `json:"size"`
	// BlockSize is the cache line size in bytes.
	BlockSize int `json:"block_size"`
	// Associativity is the number of ways per set.
	Associativity int `json:"associativity"`
	// Policy is the replacement discipline used once a set is full.
	Policy Policy `json:"policy"`
	// Latency is the cost, in cycles, charged for consulting this layer
	// (on both hit and miss).
	Latency uint64 `json:"latency"`
}

// Validate checks that the geometry is constructible. A non-positive
// associativity or zero block size is a configuration error, detected
// here rather than at access time.
func (c Config) Validate() error {
	if c.Associativity <= 0 {
		return fmt.Errorf("cache %q: associativity must be positive, got %d", c.Name, c.Associativity)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("cache %q: block size must be positive, got %d", c.Name, c.BlockSize)
	}
	if c.Size <= 0 {
		return fmt.Errorf("cache %q: size must be positive, got %d", c.Name, c.Size)
	}
	return nil
}

// numSets returns S = max(1, size / (block_size * associativity)).
func (c Config) numSets() int {
	s := c.Size / (c.BlockSize * c.Associativity)
	if s < 1 {
		return 1
	}
	return s
}

// Outcome is the classification of a single access.
type Outcome int

const (
	// Miss means the line was not resident and had to be fetched.
	Miss Outcome = iota
	// Hit means the line was resident in this layer.
	Hit
)

func (o Outcome) String() string {
	if o == Hit {
		return "hit"
	}
	return "miss"
}

// CacheLayer is a single set-associative cache: lookup, insert, evict,
// stat accounting, and an optional non-owning downstream link.
type CacheLayer struct {
	config Config
	sets   []*CacheSet
	next   *CacheLayer

	hits      uint64
	misses    uint64
	evictions uint64

	rng randSource
}

// New constructs a CacheLayer. next may be nil, meaning misses are
// served by the implicit backing store (no recursive access, no
// further stat accounting at this layer).
func New(config Config, next *CacheLayer) (*CacheLayer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	numSets := config.numSets()
	sets := make([]*CacheSet, numSets)
	for i := range sets {
		sets[i] = newCacheSet(config.Associativity, config.Policy)
	}

	return &CacheLayer{
		config: config,
		sets:   sets,
		next:   next,
		rng:    defaultRandSource,
	}, nil
}

// SetNext wires (or rewires) the downstream layer.
func (c *CacheLayer) SetNext(next *CacheLayer) {
	c.next = next
}

// SetRandSource overrides the PRNG used for Random-policy victim
// selection. Used by tests that need a deterministic, non-shared
// stream instead of the process-wide default.
func (c *CacheLayer) SetRandSource(src *rand.Rand) {
	c.rng = src
}

// Config returns the layer's geometry.
func (c *CacheLayer) Config() Config { return c.config }

// NumSets returns the number of sets S.
func (c *CacheLayer) NumSets() int { return len(c.sets) }

// Hits, Misses, Evictions return the running counters.
func (c *CacheLayer) Hits() uint64      { return c.hits }
func (c *CacheLayer) Misses() uint64    { return c.misses }
func (c *CacheLayer) Evictions() uint64 { return c.evictions }

// HitRate and MissRate return a fraction in [0, 1], or 0 if no
// accesses have been made yet.
func (c *CacheLayer) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

func (c *CacheLayer) MissRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.misses) / float64(total)
}

// addrParts decomposes an address into its set index and tag.
func (c *CacheLayer) addrParts(addr uint64) (setIdx int, tag uint64) {
	blockAddr := addr / uint64(c.config.BlockSize)
	setIdx = int(blockAddr % uint64(len(c.sets)))
	tag = blockAddr / uint64(len(c.sets))
	return setIdx, tag
}

// Access resolves one memory access against this layer. On a hit, the
// downstream layer is never touched. On a miss, the access is first
// forwarded to the downstream layer (if any) — this is the sole
// signalling channel MemorySystem uses to learn what happened further
// down, via stat-counter deltas it reads itself — and then a victim is
// selected and installed.
func (c *CacheLayer) Access(a trace.Access) Outcome {
	setIdx, tag := c.addrParts(a.Address)
	set := c.sets[setIdx]

	if idx := set.lookup(tag); idx >= 0 {
		c.hits++
		set.touch(idx)
		if a.Type == trace.Write {
			set.blocks[idx].dirty = true
		}
		return Hit
	}

	c.misses++

	if c.next != nil {
		c.next.Access(a)
	}

	idx := set.findVictim(c.config.Policy, c.rng)
	dirtyEviction := set.install(idx, tag, a.Type == trace.Write, c.config.Policy)
	if dirtyEviction {
		c.evictions++
	}

	return Miss
}
