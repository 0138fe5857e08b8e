// Package main provides the entry point for gpucachesim.
// gpucachesim is a trace-driven GPU memory-hierarchy simulator.
//
// For the full CLI, use: go run ./cmd/gpucachesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("gpucachesim - GPU Cache & Memory Hierarchy Simulator")
	fmt.Println("")
	fmt.Println("Usage: gpucachesim [options] <trace_file>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to a JSON memory-system configuration file")
	fmt.Println("  -seed      Seed for the RANDOM replacement policy's PRNG")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/gpucachesim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/gpucachesim' instead.")
	}
}
