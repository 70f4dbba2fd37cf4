package uct

import "time"

// SeedGeneratorFnType produces base seeds for per-thread RNGs. Thread i
// uses SeedGeneratorFn() + i, so a fixed generator with one thread gives
// fully reproducible searches.
type SeedGeneratorFnType func() int64

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// SetSeedGeneratorFn overrides the seed source for all searches created
// afterwards. Passing nil keeps the current generator.
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}
