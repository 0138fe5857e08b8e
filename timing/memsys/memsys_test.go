package memsys_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/VR-2024/gpu-cache-simulator/timing/cache"
	"github.com/VR-2024/gpu-cache-simulator/timing/memsys"
	"github.com/VR-2024/gpu-cache-simulator/trace"
)

var _ = Describe("MemorySystem", func() {
	Describe("Scenario 6 — hierarchy cycle accounting", func() {
		It("charges L1 + L2 + global latency on a cold global address", func() {
			sys, err := memsys.New(memsys.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			cost := sys.Access(trace.Access{Address: 0x300000, Type: trace.Read, ThreadID: 0, BlockID: 0})
			Expect(cost).To(Equal(uint64(630)))

			stats := sys.Stats()
			Expect(stats.RegisterHits).To(Equal(uint64(0)))
			Expect(stats.GlobalMemoryAccesses).To(Equal(uint64(1)))
			Expect(stats.TotalAccesses).To(Equal(uint64(1)))
			Expect(stats.CurrentCycle).To(Equal(uint64(630)))

			Expect(sys.L1().Misses()).To(Equal(uint64(1)))
			Expect(sys.L2().Misses()).To(Equal(uint64(1)))
		})
	})

	Describe("register routing", func() {
		It("counts any address below the register range as a register hit for any thread", func() {
			sys, _ := memsys.New(memsys.DefaultConfig())

			cost := sys.Access(trace.Access{Address: 0x10, Type: trace.Read, ThreadID: 7})
			Expect(cost).To(Equal(uint64(1)))
			Expect(sys.Stats().RegisterHits).To(Equal(uint64(1)))
		})

		It("wraps an out-of-range thread id modulo MaxThreads before classifying", func() {
			config := memsys.DefaultConfig()
			sysA, _ := memsys.New(config)
			sysB, _ := memsys.New(config)

			// thread id beyond MaxThreads must classify identically to its
			// wrapped equivalent, for both the register check itself and
			// any address it pushes past the register boundary. 0x300000
			// lies above the wrapped id's register bound but below the
			// bound the unwrapped id would give.
			wrapped := uint32(7)
			outOfRange := wrapped + uint32(config.MaxThreads)*3

			for _, addr := range []uint64{0x10, 0x300000} {
				costA := sysA.Access(trace.Access{Address: addr, Type: trace.Read, ThreadID: wrapped})
				costB := sysB.Access(trace.Access{Address: addr, Type: trace.Read, ThreadID: outOfRange})

				Expect(costB).To(Equal(costA))
			}
			Expect(sysB.Stats().RegisterHits).To(Equal(sysA.Stats().RegisterHits))
		})
	})

	Describe("shared memory routing", func() {
		It("excludes address zero from the shared-memory path", func() {
			sys, _ := memsys.New(memsys.DefaultConfig())

			// Address 0 is below the register range for thread 0, so it
			// is a register hit, not a shared-memory miss.
			cost := sys.Access(trace.Access{Address: 0, Type: trace.Read, ThreadID: 0})
			Expect(cost).To(Equal(uint64(1)))
			Expect(sys.Stats().RegisterHits).To(Equal(uint64(1)))
		})

		It("hits shared memory on a repeat access within its address space", func() {
			sys, _ := memsys.New(memsys.DefaultConfig())

			addr := uint64(100000) // within SharedMemorySize*MaxBlocks, above register range
			first := sys.Access(trace.Access{Address: addr, Type: trace.Read, ThreadID: 0})
			// Shared memory misses and fills the line into L2 on the way, so
			// the L1 miss that follows finds it in L2: no global access.
			Expect(first).To(Equal(uint64(20) + uint64(30) + uint64(200)))

			second := sys.Access(trace.Access{Address: addr, Type: trace.Read, ThreadID: 0})
			Expect(second).To(Equal(uint64(20)))
		})
	})

	Describe("repeatable replay", func() {
		It("yields identical stats for the same trace replayed against a fresh system with the same seed", func() {
			cache.Seed(42)
			sys1, _ := memsys.New(memsys.DefaultConfig())
			cache.Seed(42)
			sys2, _ := memsys.New(memsys.DefaultConfig())

			accesses := []trace.Access{
				{Address: 0x300000, Type: trace.Read, ThreadID: 0, BlockID: 0},
				{Address: 0x300080, Type: trace.Write, ThreadID: 1, BlockID: 0},
				{Address: 0x301000, Type: trace.Read, ThreadID: 2, BlockID: 1},
			}

			var total1, total2 uint64
			for _, a := range accesses {
				total1 += sys1.Access(a)
			}
			for _, a := range accesses {
				total2 += sys2.Access(a)
			}

			Expect(total1).To(Equal(total2))
			Expect(sys1.Stats()).To(Equal(sys2.Stats()))
		})
	})
})
