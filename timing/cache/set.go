package cache

import "container/list"

// CacheBlock is a single line within a CacheSet. No data bytes are
// stored: this simulator observes hit/miss/eviction behaviour only,
// never block contents.
type CacheBlock struct {
	valid       bool
	dirty       bool
	tag         uint64
	lastUse     uint32
	accessCount uint32
}

// CacheSet is a fixed-size, ordered sequence of CacheBlocks sharing an
// index, plus the policy-specific bookkeeping needed to pick a victim
// in O(associativity) or better.
type CacheSet struct {
	blocks []CacheBlock
	tick   uint32

	// FIFO install order, oldest at Front(). Holds block indices.
	fifoQueue *list.List
	fifoElems []*list.Element // fifoElems[i] is this block's node in fifoQueue, nil if never installed

	// LFU: min-heap over access count, ties broken by lowest index.
	lfuHeap  lfuHeap
	lfuByIdx []*lfuEntry
}

func newCacheSet(associativity int, policy Policy) *CacheSet {
	cs := &CacheSet{
		blocks: make([]CacheBlock, associativity),
	}
	switch policy {
	case FIFO:
		cs.fifoQueue = list.New()
		cs.fifoElems = make([]*list.Element, associativity)
	case LFU:
		cs.lfuHeap = make(lfuHeap, associativity)
		cs.lfuByIdx = make([]*lfuEntry, associativity)
		for i := range cs.lfuHeap {
			e := &lfuEntry{block: i, count: 0}
			cs.lfuHeap[i] = e
			cs.lfuByIdx[i] = e
			e.heapIndex = i
		}
	}
	return cs
}

// lookup scans the set for a valid block whose tag matches. At most
// one block can match (uniqueness invariant).
func (cs *CacheSet) lookup(tag uint64) int {
	for i := range cs.blocks {
		if cs.blocks[i].valid && cs.blocks[i].tag == tag {
			return i
		}
	}
	return -1
}

// touch advances the set's tick and records it as the block's
// last-use timestamp. It also bumps the access count, used by LFU
// regardless of which policy is active (the spec requires the count
// be maintained on every hit, not only under LFU).
func (cs *CacheSet) touch(idx int) {
	cs.blocks[idx].lastUse = cs.tick
	cs.tick++
	cs.blocks[idx].accessCount++
	if cs.lfuByIdx != nil {
		e := cs.lfuByIdx[idx]
		e.count = cs.blocks[idx].accessCount
		heapFix(&cs.lfuHeap, e.heapIndex)
	}
}

// findVictim selects, but does not commit to evicting, the block that
// install should overwrite. The first invalid block always wins; this
// check precedes and is independent of policy.
func (cs *CacheSet) findVictim(policy Policy, rng randSource) int {
	for i := range cs.blocks {
		if !cs.blocks[i].valid {
			return i
		}
	}

	switch policy {
	case LRU:
		victim := 0
		min := cs.blocks[0].lastUse
		for i := 1; i < len(cs.blocks); i++ {
			if cs.blocks[i].lastUse < min {
				min = cs.blocks[i].lastUse
				victim = i
			}
		}
		return victim

	case FIFO:
		if cs.fifoQueue.Len() == 0 {
			return 0
		}
		return cs.fifoQueue.Front().Value.(int)

	case LFU:
		return cs.lfuHeap[0].block

	case Random:
		return rng.Intn(len(cs.blocks))

	default:
		return 0
	}
}

// install commits victim idx as the new occupant of the set: it
// performs the dirty-eviction check, resets block metadata, and
// updates whichever policy-specific structure is active. Returns
// whether the prior occupant was a dirty eviction.
func (cs *CacheSet) install(idx int, tag uint64, dirty bool, policy Policy) (dirtyEviction bool) {
	victim := &cs.blocks[idx]
	dirtyEviction = victim.valid && victim.dirty

	if policy == FIFO {
		if cs.fifoElems[idx] != nil {
			cs.fifoQueue.Remove(cs.fifoElems[idx])
		}
		cs.fifoElems[idx] = cs.fifoQueue.PushBack(idx)
	}

	victim.valid = true
	victim.tag = tag
	victim.dirty = dirty
	victim.lastUse = cs.tick
	cs.tick++
	victim.accessCount = 1

	if cs.lfuByIdx != nil {
		e := cs.lfuByIdx[idx]
		e.count = 1
		heapFix(&cs.lfuHeap, e.heapIndex)
	}

	return dirtyEviction
}

// randSource is the minimal interface CacheSet needs from a PRNG,
// satisfied by *rand.Rand (math/rand) without this file importing it.
type randSource interface {
	Intn(n int) int
}
