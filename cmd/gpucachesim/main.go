// Package main provides the entry point for gpucachesim.
// gpucachesim is a trace-driven simulator of a GPU-style memory
// hierarchy: register file, shared memory, L1, L2, and global memory.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/VR-2024/gpu-cache-simulator/timing/cache"
	"github.com/VR-2024/gpu-cache-simulator/timing/memsys"
	"github.com/VR-2024/gpu-cache-simulator/trace"
)

var (
	configPath = flag.String("config", "", "Path to a JSON memory-system configuration file")
	seed       = flag.Int64("seed", 1, "Seed for the RANDOM replacement policy's PRNG")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: gpucachesim [options] <trace_file>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	tracePath := flag.Arg(0)

	fmt.Println("GPU Cache & Memory Hierarchy Simulator")
	fmt.Println("======================================")
	fmt.Println()

	config, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	accesses, err := trace.Load(tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded %d memory accesses from %s\n", len(accesses), tracePath)
	printTraceSummary(trace.Summarize(accesses))

	cache.Seed(*seed)

	sys, err := memsys.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create memory system: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Config: L1=%dKiB/%d-way/%s  L2=%dKiB/%d-way/%s  seed=%d\n",
			config.L1.Size/1024, config.L1.Associativity, config.L1.Policy,
			config.L2.Size/1024, config.L2.Associativity, config.L2.Policy,
			*seed)
	}

	fmt.Println("Running simulation...")

	for i, a := range accesses {
		sys.Access(a)

		if (i+1)%100 == 0 {
			fmt.Printf(" Processed: %d/%d accesses\r", i+1, len(accesses))
		}
	}
	fmt.Println()

	printSystemStats(sys)
}

// loadConfig returns the default hierarchy geometry, optionally
// overridden by a JSON file at path.
func loadConfig(path string) (memsys.Config, error) {
	config := memsys.DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return memsys.Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return memsys.Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return config, nil
}

func printTraceSummary(s trace.Summary) {
	fmt.Println("Memory Trace Summary:")
	fmt.Printf("  Total Accesses: %d\n", s.Total)
	fmt.Printf("  Reads: %d (%.1f%%)\n", s.Reads, pct(s.Reads, s.Total))
	fmt.Printf("  Writes: %d (%.1f%%)\n", s.Writes, pct(s.Writes, s.Total))
	fmt.Printf("  Address Range: 0x%x - 0x%x\n\n", s.MinAddr, s.MaxAddr)
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100.0
}

func printSystemStats(sys *memsys.MemorySystem) {
	fmt.Println()
	fmt.Println("GPU Cache & Memory Hierarchy Statistics")
	fmt.Println("=======================================")

	stats := sys.Stats()
	fmt.Printf("Total Memory Accesses: %d\n", stats.TotalAccesses)
	fmt.Printf("Total Simulation Cycles: %d\n", stats.CurrentCycle)
	fmt.Printf("Register Hits: %d\n", stats.RegisterHits)
	fmt.Printf("Global Memory Accesses: %d\n\n", stats.GlobalMemoryAccesses)

	printLayerStats(sys.SharedMemory())
	printLayerStats(sys.L1())
	printLayerStats(sys.L2())

	fmt.Printf("Average Memory Access Time: %.2f cycles\n", stats.AverageCyclesPerAccess())
}

func printLayerStats(layer *cache.CacheLayer) {
	cfg := layer.Config()
	fmt.Printf("%s Statistics:\n", cfg.Name)
	fmt.Printf("  Size: %d KB, Associativity: %d, Sets: %d\n",
		cfg.Size/1024, cfg.Associativity, layer.NumSets())
	fmt.Printf("  Hits: %d, Misses: %d\n", layer.Hits(), layer.Misses())
	fmt.Printf("  Hit Rate:  %.2f%%\n", layer.HitRate()*100)
	fmt.Printf("  Miss Rate: %.2f%%\n", layer.MissRate()*100)
	fmt.Printf("  Evictions: %d\n", layer.Evictions())
	fmt.Printf("  Latency: %d cycles\n\n", cfg.Latency)
}
