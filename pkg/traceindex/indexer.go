package traceindex

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/eunmann/segyio/pkg/binconv"
	"github.com/eunmann/segyio/pkg/header"
	"github.com/eunmann/segyio/pkg/logging"
	"github.com/eunmann/segyio/pkg/segyerr"
)

const traceHeaderSize = int64(header.TraceSize)

// State is the lifecycle of an index.
type State int

const (
	// Empty means no scan has completed.
	Empty State = iota
	// Built means the index covers the file up to EndOfFile.
	Built
	// Stale means data was appended past EndOfFile and Update is due.
	Stale
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Built:
		return "built"
	case Stale:
		return "stale"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Config describes the file an Indexer scans.
type Config struct {
	// Path names the file in errors.
	Path string
	// DataStart is the offset of the first trace header.
	DataStart int64
	// SampleWidth is the byte size of one sample, fixed by the file's format
	// code.
	SampleWidth int
	// FixedSamples, when positive, declares every trace to hold exactly that
	// many samples. Positions are then computed without reading headers.
	FixedSamples int
	// TraceHeader is cloned to decode trace headers during the scan.
	TraceHeader header.TraceHeader
	Logger      zerolog.Logger
}

// Indexer maintains the Store of one open file.
type Indexer struct {
	cfg   Config
	store Store
	th    header.TraceHeader
	buf   []byte
	eof   int64
	state State
}

// NewIndexer returns an Empty indexer writing into store.
func NewIndexer(store Store, cfg Config) (*Indexer, error) {
	if cfg.SampleWidth <= 0 {
		return nil, fmt.Errorf("%w: sample width %d", segyerr.ErrFormatViolation, cfg.SampleWidth)
	}
	if cfg.DataStart < 0 {
		return nil, fmt.Errorf("%w: data start %d", segyerr.ErrFormatViolation, cfg.DataStart)
	}
	if cfg.TraceHeader == nil {
		return nil, errors.New("traceindex: nil trace header prototype")
	}
	return &Indexer{
		cfg:   cfg,
		store: store,
		th:    cfg.TraceHeader.Clone(),
		buf:   make([]byte, header.TraceSize),
		eof:   cfg.DataStart,
	}, nil
}

// State returns the current lifecycle state.
func (x *Indexer) State() State { return x.state }

// Size returns the number of indexed traces.
func (x *Indexer) Size() int { return x.store.Size() }

// EndOfFile returns the file size covered by the index.
func (x *Indexer) EndOfFile() int64 { return x.eof }

// Store returns the backing store.
func (x *Indexer) Store() Store { return x.store }

// Load returns the location of trace n.
func (x *Indexer) Load(n int) (Item, error) {
	if err := segyerr.CheckIndex("trace", n, x.store.Size()); err != nil {
		return Item{}, err
	}
	return x.store.Load(n)
}

// MarkStale records that bytes were appended past EndOfFile.
func (x *Indexer) MarkStale() {
	if x.state == Built {
		x.state = Stale
	}
}

// Build discards any items and scans r from DataStart to size.
func (x *Indexer) Build(r io.ReaderAt, size int64) error {
	if err := x.store.Clear(); err != nil {
		return err
	}
	x.state = Empty
	x.eof = x.cfg.DataStart
	if err := x.scan(r, x.cfg.DataStart, size, "index_build"); err != nil {
		return err
	}
	x.eof = size
	x.state = Built
	return x.store.Sync()
}

// Update extends the index over bytes appended since the last scan. Only the
// tail from EndOfFile is read. An Empty index is built from scratch.
func (x *Indexer) Update(r io.ReaderAt, size int64) error {
	if x.state == Empty {
		return x.Build(r, size)
	}
	if size < x.eof {
		return fmt.Errorf("%w: %s shrank from %d to %d bytes since it was indexed",
			segyerr.ErrTruncated, x.cfg.Path, x.eof, size)
	}
	if err := x.scan(r, x.eof, size, "index_update"); err != nil {
		return err
	}
	x.eof = size
	x.state = Built
	return x.store.Sync()
}

// Resume adopts the items already in the store when they describe r exactly:
// the first item starts at DataStart, the last one ends at size, and the
// header at the last position agrees on its sample count. Otherwise the
// index is rebuilt. It reports whether the stored items were reused.
func (x *Indexer) Resume(r io.ReaderAt, size int64) (bool, error) {
	log := x.cfg.Logger
	if reason := x.checkStored(r, size); reason != "" {
		log.Debug().
			Str("reason", reason).
			Int("stored_items", x.store.Size()).
			Msg("stored index rejected, rebuilding")
		return false, x.Build(r, size)
	}
	x.eof = size
	x.state = Built
	log.Debug().Int("traces", x.store.Size()).Msg("stored index reused")
	return true, nil
}

func (x *Indexer) checkStored(r io.ReaderAt, size int64) string {
	n := x.store.Size()
	if n == 0 {
		return "no stored items"
	}
	first, err := x.store.Load(0)
	if err != nil {
		return err.Error()
	}
	if first.Position != x.cfg.DataStart {
		return fmt.Sprintf("first trace at %d, data starts at %d", first.Position, x.cfg.DataStart)
	}
	last, err := x.store.Load(n - 1)
	if err != nil {
		return err.Error()
	}
	if end := last.End(x.cfg.SampleWidth); end != size {
		return fmt.Sprintf("last trace ends at %d, file is %d bytes", end, size)
	}
	ns, err := x.readNumSamples(r, last.Position)
	if err != nil {
		return err.Error()
	}
	if int64(ns) != last.NumSamples {
		return fmt.Sprintf("last trace header holds %d samples, index says %d", ns, last.NumSamples)
	}
	return ""
}

func (x *Indexer) readNumSamples(r io.ReaderAt, pos int64) (int, error) {
	n, err := r.ReadAt(x.buf, pos)
	if n < len(x.buf) {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return 0, fmt.Errorf("read trace header at %d: %w", pos, err)
	}
	if err := x.th.Load(x.buf); err != nil {
		return 0, err
	}
	if binconv.HostIsLittleEndian() {
		x.th.InvertByteOrder()
	}
	return x.th.NumSamples(), nil
}

func (x *Indexer) scan(r io.ReaderAt, from, size int64, phase string) error {
	start := time.Now()
	log := x.cfg.Logger.With().Str("phase", phase).Logger()
	before := x.store.Size()
	if size < from {
		return &segyerr.TruncationError{Path: x.cfg.Path, Complete: before, FileSize: size, Expected: from}
	}

	var err error
	if x.cfg.FixedSamples > 0 {
		err = x.scanFixed(from, size)
	} else {
		err = x.scanHeaders(r, from, size, log)
	}
	if err != nil {
		return err
	}

	scanned := size - from
	logging.PhaseComplete(log, phase, time.Since(start)).
		Count("traces", int64(x.store.Size()-before)).
		Count("traces_total", int64(x.store.Size())).
		Bytes("bytes_scanned", scanned).
		Bool("fixed_length", x.cfg.FixedSamples > 0).
		Throughput(scanned).
		Rate("traces", int64(x.store.Size()-before)).
		LogDebug("trace index scan complete")
	return nil
}

// scanHeaders walks trace by trace, reading each header for its length.
func (x *Indexer) scanHeaders(r io.ReaderAt, pos, size int64, log zerolog.Logger) error {
	progress := logging.NewScanProgress(log, "index_scan", size-pos)
	width := int64(x.cfg.SampleWidth)
	for pos != size {
		if pos > size {
			// The last item claims bytes the file does not hold.
			complete := x.store.Size() - 1
			if err := x.store.Reset(complete); err != nil {
				return err
			}
			return &segyerr.TruncationError{Path: x.cfg.Path, Complete: complete, FileSize: size, Expected: pos}
		}
		ns, err := x.readNumSamples(r, pos)
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return &segyerr.TruncationError{
					Path: x.cfg.Path, Complete: x.store.Size(), FileSize: size, Expected: pos + traceHeaderSize,
				}
			}
			return err
		}
		if ns < 0 {
			return fmt.Errorf("%w: trace %d at offset %d declares %d samples",
				segyerr.ErrFormatViolation, x.store.Size(), pos, ns)
		}
		if err := x.store.PushBack(Item{Position: pos, NumSamples: int64(ns)}); err != nil {
			return err
		}
		step := traceHeaderSize + int64(ns)*width
		pos += step
		progress.Advance(step)
	}
	return nil
}

// scanFixed computes positions arithmetically for fixed-length files.
func (x *Indexer) scanFixed(pos, size int64) error {
	ns := int64(x.cfg.FixedSamples)
	stride := traceHeaderSize + ns*int64(x.cfg.SampleWidth)
	count := (size - pos) / stride
	for i := int64(0); i < count; i++ {
		if err := x.store.PushBack(Item{Position: pos + i*stride, NumSamples: ns}); err != nil {
			return err
		}
	}
	if end := pos + count*stride; end != size {
		return &segyerr.TruncationError{
			Path: x.cfg.Path, Complete: x.store.Size(), FileSize: size, Expected: end + stride,
		}
	}
	return nil
}

// Close releases the store.
func (x *Indexer) Close() error {
	return x.store.Close()
}
