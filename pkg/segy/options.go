package segy

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/eunmann/segyio/pkg/header"
	"github.com/eunmann/segyio/pkg/logging"
	"github.com/eunmann/segyio/pkg/membudget"
	"github.com/eunmann/segyio/pkg/traceindex"
)

// Options controls how a file is opened.
type Options struct {
	// IndexStrategy selects in-memory or sidecar index storage.
	// Default: traceindex.Auto
	IndexStrategy traceindex.Strategy

	// MemoryBudget bounds an in-memory index under traceindex.Auto.
	// Default: membudget.Resolve("") (environment, then system RAM)
	MemoryBudget *membudget.Budget

	// ReuseSidecar adopts an existing sidecar index when it still matches
	// the file. Only meaningful for the sidecar strategy.
	// Default: false
	ReuseSidecar bool

	// ReadOnly opens without write access. Missing files are an error and
	// writes fail with ErrReadOnly.
	ReadOnly bool

	// Headers resolves revision tags. Default: header.Default()
	Headers *header.Headers

	// Logger receives debug events for index builds and commits.
	// Default: the process logger with component=segy
	Logger *zerolog.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	log := logging.L().With().Str("component", "segy").Logger()
	return Options{
		IndexStrategy: traceindex.Auto,
		Headers:       header.Default(),
		Logger:        &log,
	}
}

// Validate checks option ranges and fills zero values with defaults.
func (o *Options) Validate() error {
	switch o.IndexStrategy {
	case traceindex.Auto, traceindex.Memory, traceindex.Sidecar:
	default:
		return fmt.Errorf("invalid index strategy %s", o.IndexStrategy)
	}
	if o.MemoryBudget == nil {
		b, err := membudget.Resolve("")
		if err != nil {
			return err
		}
		o.MemoryBudget = &b
	}
	if o.Headers == nil {
		o.Headers = header.Default()
	}
	if o.Logger == nil {
		o.Logger = DefaultOptions().Logger
	}
	return nil
}

// Option mutates Options.
type Option func(*Options)

// WithIndexStrategy selects the index storage.
func WithIndexStrategy(s traceindex.Strategy) Option {
	return func(o *Options) { o.IndexStrategy = s }
}

// WithMemoryBudget bounds the in-memory index chosen by traceindex.Auto.
func WithMemoryBudget(b membudget.Budget) Option {
	return func(o *Options) { o.MemoryBudget = &b }
}

// WithSidecarReuse toggles reuse of an existing sidecar index.
func WithSidecarReuse(reuse bool) Option {
	return func(o *Options) { o.ReuseSidecar = reuse }
}

// WithReadOnly opens the file without write access.
func WithReadOnly() Option {
	return func(o *Options) { o.ReadOnly = true }
}

// WithRegistry resolves revision tags against h instead of header.Default().
func WithRegistry(h *header.Headers) Option {
	return func(o *Options) { o.Headers = h }
}

// WithLogger routes the file's debug events to l.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = &l }
}
