package config

import "runtime"

// Threshold resolution chain (highest priority first):
//  1. CLI flags (--ntt-threshold, --bead-limit)
//  2. Environment variables (ABACUS_NTT_THRESHOLD, ABACUS_BEAD_LIMIT)
//  3. Adaptive hardware estimation (this file)
//  4. Static defaults in the abacus package

// ApplyAdaptiveThresholds adjusts the configuration thresholds based on
// hardware characteristics (CPU cores, word size, host memory) when default
// values are detected. This provides automatic tuning without requiring
// explicit calibration.
//
// The function only modifies values that are set to their zero default,
// preserving any user-specified overrides via command-line flags.
func ApplyAdaptiveThresholds(cfg AppConfig) AppConfig {
	if cfg.NTTThreshold == 0 {
		cfg.NTTThreshold = EstimateOptimalNTTThreshold()
	}
	if cfg.BeadLimit == 0 {
		cfg.BeadLimit = EstimateBeadLimit()
	}
	return cfg
}

// EstimateOptimalNTTThreshold provides a heuristic estimate of the digit
// count from which transform-based multiplication beats schoolbook, without
// running benchmarks.
func EstimateOptimalNTTThreshold() int {
	wordSize := 32 << (^uint(0) >> 63)
	if wordSize != 64 {
		// 32-bit targets lack fast 64x64 multiplication, so the modular
		// butterflies are expensive and schoolbook stays competitive longer.
		return 1024
	}

	numCPU := runtime.NumCPU()
	switch {
	case numCPU <= 2:
		return 512
	case numCPU <= 8:
		return 256 // Default
	default:
		return 192 // The two forward transforms run concurrently
	}
}

// EstimateBeadLimit derives a per-allocation bead ceiling from the host's
// physical memory, targeting at most a quarter of it for a single number
// (4 bytes per dense digit). When the host memory cannot be determined the
// static kernel default of 64Mi beads is used.
func EstimateBeadLimit() uint64 {
	total := totalSystemMemory()
	if total == 0 {
		return 64 << 20
	}
	limit := total / 4 / 4
	if limit < 64<<20 {
		limit = 64 << 20
	}
	return limit
}
