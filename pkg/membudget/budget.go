// Package membudget decides how much memory an in-memory trace index may
// occupy before the index is kept in a sidecar file instead.
//
// The budget comes from, in order: an explicit value (CLI flag), the
// SEGYIO_INDEX_MEMORY environment variable, or a fraction of system RAM.
package membudget

import (
	"errors"
	"fmt"
	"os"

	"github.com/eunmann/segyio/pkg/sysmem"
)

// EnvVar overrides the budget when no explicit value is given.
const EnvVar = "SEGYIO_INDEX_MEMORY"

// DefaultFraction is the divisor of detected RAM used for the budget.
const DefaultFraction = 8

// DefaultBudgetBytes is the fallback budget when system RAM cannot be
// detected.
const DefaultBudgetBytes uint64 = 512 * 1024 * 1024

// BudgetSource indicates how the memory budget was determined.
type BudgetSource string

const (
	// BudgetSourceAuto indicates 1/DefaultFraction of detected RAM.
	BudgetSourceAuto BudgetSource = "auto-ram-fraction"
	// BudgetSourceDefault indicates the budget used the fallback default.
	BudgetSourceDefault BudgetSource = "default"
	// BudgetSourceCLI indicates the budget was set via CLI flag.
	BudgetSourceCLI BudgetSource = "cli"
	// BudgetSourceEnv indicates the budget was set via environment variable.
	BudgetSourceEnv BudgetSource = "env"
)

// Budget is an immutable memory allowance.
type Budget struct {
	total  uint64
	source BudgetSource
}

// Config holds configuration for creating a Budget.
type Config struct {
	// TotalBytes is the allowance in bytes.
	TotalBytes uint64

	// Source indicates how the budget was determined.
	Source BudgetSource
}

// New creates a Budget with the given configuration.
func New(cfg Config) Budget {
	return Budget{total: cfg.TotalBytes, source: cfg.Source}
}

// NewFromSystemRAM creates a Budget set to 1/DefaultFraction of system RAM.
// If RAM cannot be detected, uses DefaultBudgetBytes.
func NewFromSystemRAM() Budget {
	return fromRAM(sysmem.Total())
}

func fromRAM(result sysmem.Result) Budget {
	if !result.Reliable {
		return New(Config{TotalBytes: DefaultBudgetBytes, Source: BudgetSourceDefault})
	}
	return New(Config{TotalBytes: result.TotalBytes / DefaultFraction, Source: BudgetSourceAuto})
}

// Resolve picks the budget: flagValue when non-empty, then EnvVar, then
// system RAM.
func Resolve(flagValue string) (Budget, error) {
	if flagValue != "" {
		n, err := ParseHumanSize(flagValue)
		if err != nil {
			return Budget{}, fmt.Errorf("index memory budget: %w", err)
		}
		return New(Config{TotalBytes: n, Source: BudgetSourceCLI}), nil
	}
	if v := os.Getenv(EnvVar); v != "" {
		n, err := ParseHumanSize(v)
		if err != nil {
			return Budget{}, fmt.Errorf("%s: %w", EnvVar, err)
		}
		return New(Config{TotalBytes: n, Source: BudgetSourceEnv}), nil
	}
	return NewFromSystemRAM(), nil
}

// Total returns the total budget in bytes.
func (b Budget) Total() uint64 {
	return b.total
}

// Source returns how the budget was determined.
func (b Budget) Source() BudgetSource {
	return b.source
}

// Fits reports whether n bytes stay within the budget.
func (b Budget) Fits(n uint64) bool {
	return n <= b.total
}

// ParseHumanSize parses a human-readable size string (e.g., "4GiB", "512MB").
// Supported suffixes: B, KB, KiB, MB, MiB, GB, GiB, TB, TiB.
func ParseHumanSize(s string) (uint64, error) {
	if s == "" {
		return 0, errors.New("empty size string")
	}

	// Find where the number ends
	numEnd := 0
	for i, c := range s {
		if (c < '0' || c > '9') && c != '.' {
			numEnd = i
			break
		}
		numEnd = i + 1
	}

	numStr := s[:numEnd]
	suffix := s[numEnd:]

	var num float64
	if _, err := fmt.Sscanf(numStr, "%f", &num); err != nil {
		return 0, fmt.Errorf("invalid number: %s", numStr)
	}

	var multiplier float64
	switch suffix {
	case "", "B":
		multiplier = 1.0
	case "KB":
		multiplier = 1000
	case "KiB", "K":
		multiplier = 1024
	case "MB":
		multiplier = 1000 * 1000
	case "MiB", "M":
		multiplier = 1024 * 1024
	case "GB":
		multiplier = 1000 * 1000 * 1000
	case "GiB", "G":
		multiplier = 1024 * 1024 * 1024
	case "TB":
		multiplier = 1000 * 1000 * 1000 * 1000
	case "TiB", "T":
		multiplier = 1024 * 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size suffix: %s", suffix)
	}

	return uint64(num * multiplier), nil
}
