// Package memsys composes the fixed GPU memory hierarchy — register
// file, shared memory, L1, L2, and the global memory backing store —
// and routes each incoming access to the correct entry point,
// accumulating the cumulative cycle cost from the per-layer outcomes.
package memsys

import (
	"fmt"

	"github.com/VR-2024/gpu-cache-simulator/timing/cache"
	"github.com/VR-2024/gpu-cache-simulator/trace"
)

// GlobalMemoryLatency is the fixed cost, in cycles, of servicing an
// access from the backing store when L2 misses. New always builds an
// L2, so there is no configuration without one. Hard-coded in the original reference rather than part
// of the configurable geometry; kept as a named constant here for the
// same reason the teacher keeps per-opcode latencies as named fields
// instead of inline literals.
const GlobalMemoryLatency uint64 = 400

// Config holds the hierarchy's fixed-but-parameterisable geometry, as
// spec.md §4.2 describes it and original_source/.../gpu_memory_system.h
// fixes in concrete numbers.
type Config struct {
	MaxThreads          int          `json:"max_threads"`
	MaxBlocks           int          `json:"max_blocks"`
	RegistersPerThread  int          `json:"registers_per_thread"`
	RegisterHitLatency  uint64       `json:"register_hit_latency"`
	SharedMemory        cache.Config `json:"shared_memory"`
	L1                  cache.Config `json:"l1"`
	L2                  cache.Config `json:"l2"`
	GlobalMemorySize    uint64       `json:"global_memory_size"`
	GlobalMemoryLatency uint64       `json:"global_memory_latency"`
}

// DefaultConfig returns the hierarchy's reference geometry:
// registers (1 cycle), 64KiB direct-mapped RANDOM shared memory
// (20 cycles), 64KiB 4-way LRU L1 (30 cycles), 4MiB 16-way LRU L2
// (200 cycles), 1GiB global memory (400 cycles).
func DefaultConfig() Config {
	return Config{
		MaxThreads:         1024,
		MaxBlocks:          32,
		RegistersPerThread: 256,
		RegisterHitLatency: 1,
		SharedMemory: cache.Config{
			Name:          "Shared Memory (L1 Scratchpad)",
			Size:          64 * 1024,
			BlockSize:     128,
			Associativity: 1,
			Policy:        cache.Random,
			Latency:       20,
		},
		L1: cache.Config{
			Name:          "L1 Cache (Per-SM)",
			Size:          64 * 1024,
			BlockSize:     128,
			Associativity: 4,
			Policy:        cache.LRU,
			Latency:       30,
		},
		L2: cache.Config{
			Name:          "L2 Cache (Global)",
			Size:          4 * 1024 * 1024,
			BlockSize:     128,
			Associativity: 16,
			Policy:        cache.LRU,
			Latency:       200,
		},
		GlobalMemorySize:    1024 * 1024 * 1024,
		GlobalMemoryLatency: GlobalMemoryLatency,
	}
}

// Stats holds the aggregate counters accumulated across a run.
type Stats struct {
	TotalAccesses        uint64
	RegisterHits         uint64
	GlobalMemoryAccesses uint64
	CurrentCycle         uint64
}

// AverageCyclesPerAccess returns CurrentCycle/TotalAccesses, or 0 if
// no accesses have been made.
func (s Stats) AverageCyclesPerAccess() float64 {
	if s.TotalAccesses == 0 {
		return 0
	}
	return float64(s.CurrentCycle) / float64(s.TotalAccesses)
}

// MemorySystem is the root owner of the hierarchy: it owns every
// CacheLayer and computes the cumulative cycle cost of each access
// from the per-layer outcomes. The register file and global memory
// have no storage here; they are modelled only by address arithmetic
// and fixed latencies, and GlobalMemorySize is not consulted.
type MemorySystem struct {
	config Config

	sharedMemory *cache.CacheLayer
	l1           *cache.CacheLayer
	l2           *cache.CacheLayer

	stats Stats
}

// New constructs a MemorySystem and wires the hierarchy: shared
// memory and L1 both feed into L2; L2 has no downstream (misses are
// served by the implicit global memory backing store).
func New(config Config) (*MemorySystem, error) {
	l2, err := cache.New(config.L2, nil)
	if err != nil {
		return nil, fmt.Errorf("memsys: L2: %w", err)
	}

	l1, err := cache.New(config.L1, l2)
	if err != nil {
		return nil, fmt.Errorf("memsys: L1: %w", err)
	}

	shared, err := cache.New(config.SharedMemory, l2)
	if err != nil {
		return nil, fmt.Errorf("memsys: shared memory: %w", err)
	}

	return &MemorySystem{
		config:       config,
		sharedMemory: shared,
		l1:           l1,
		l2:           l2,
	}, nil
}

// SharedMemory, L1, L2 expose the individual layers for stats
// reporting.
func (m *MemorySystem) SharedMemory() *cache.CacheLayer { return m.sharedMemory }
func (m *MemorySystem) L1() *cache.CacheLayer           { return m.l1 }
func (m *MemorySystem) L2() *cache.CacheLayer           { return m.l2 }

// Config returns the hierarchy's geometry.
func (m *MemorySystem) Config() Config { return m.config }

// Stats returns the aggregate counters accumulated so far.
func (m *MemorySystem) Stats() Stats { return m.stats }

// isRegisterAddress reports whether addr falls in the register
// address space. This check is independent of the thread's actual
// register base: any address below
// registersPerThread*4 + threadID*registersPerThread*4 is a register
// hit for any thread. That is the reference's behaviour (see
// DESIGN.md Open Question 1) and is preserved here unchanged.
//
// threadID is taken modulo MaxThreads first, matching
// original_source/.../src/main.c, which sanitizes
// trace->thread_id % MAX_THREADS before ever building a
// memory_access_t — the raw trace value is otherwise unbounded and
// would scale base arbitrarily for an out-of-range thread id.
// block_id needs no equivalent treatment: isSharedMemoryAddress never
// reads it.
func (m *MemorySystem) isRegisterAddress(addr uint64, threadID uint32) bool {
	threadID = threadID % uint32(m.config.MaxThreads)
	base := uint64(threadID) * uint64(m.config.RegistersPerThread) * 4
	return addr < base+uint64(m.config.RegistersPerThread)*4
}

// isSharedMemoryAddress reports whether addr falls in the shared
// memory address space. Address zero is deliberately excluded (see
// DESIGN.md Open Question 2), preserved unchanged from the reference.
func (m *MemorySystem) isSharedMemoryAddress(addr uint64) bool {
	return addr > 0 && addr < uint64(m.config.SharedMemory.Size)*uint64(m.config.MaxBlocks)
}

// Access routes one memory access through the hierarchy and returns
// the cumulative cycle cost charged for servicing it. The caller is
// expected to add the returned cost to its own running total; Access
// also accumulates it into Stats().CurrentCycle.
func (m *MemorySystem) Access(a trace.Access) uint64 {
	m.stats.TotalAccesses++

	if m.isRegisterAddress(a.Address, a.ThreadID) {
		m.stats.RegisterHits++
		m.stats.CurrentCycle += m.config.RegisterHitLatency
		return m.config.RegisterHitLatency
	}

	var total uint64

	if m.isSharedMemoryAddress(a.Address) {
		outcome := m.sharedMemory.Access(a)
		total += m.config.SharedMemory.Latency
		if outcome == cache.Hit {
			m.stats.CurrentCycle += total
			return total
		}
	}

	l2HitsBefore, l2MissesBefore := m.l2.Hits(), m.l2.Misses()

	l1Outcome := m.l1.Access(a)
	total += m.config.L1.Latency

	if l1Outcome == cache.Hit {
		m.stats.CurrentCycle += total
		return total
	}

	l2HitsDelta := m.l2.Hits() - l2HitsBefore
	l2MissesDelta := m.l2.Misses() - l2MissesBefore

	switch {
	case l2HitsDelta > 0:
		total += m.config.L2.Latency
	case l2MissesDelta > 0:
		total += m.config.L2.Latency
		m.stats.GlobalMemoryAccesses++
		total += m.config.GlobalMemoryLatency
	default:
		// Neither delta moved. With the wiring New builds every L1 miss
		// reaches L2, so this only happens if L1's downstream link was
		// rewired away from L2: conservatively charge L2 latency.
		total += m.config.L2.Latency
	}

	m.stats.CurrentCycle += total
	return total
}
