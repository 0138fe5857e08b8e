package cache

import "math/rand"

// defaultRandSource is the process-wide PRNG stream Random-policy
// layers draw from. It is seeded once, externally, by the CLI (or left
// at its fixed default for reproducible out-of-the-box runs); layers
// never create their own source, so two freshly constructed systems
// seeded identically replay identically.
var defaultRandSource = rand.New(rand.NewSource(1))

// Seed replaces the process-wide PRNG source. A layer takes the
// current source when New constructs it, so Seed affects only layers
// constructed after the call.
func Seed(seed int64) {
	defaultRandSource = rand.New(rand.NewSource(seed))
}
