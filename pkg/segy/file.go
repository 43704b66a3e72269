// Package segy opens, reads and writes SEG-Y files.
//
// A File owns the open handle, the textual and binary headers, the trace
// index and a lazy writer. Reads go straight to disk through the index;
// writes are queued and applied by Commit. Close commits, so every File must
// be closed; With scopes that for the caller.
//
// A File is not safe for concurrent use. Independent Files may read the same
// path concurrently, but commits against one path must be serialized by the
// caller.
package segy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/eunmann/segyio/pkg/binconv"
	"github.com/eunmann/segyio/pkg/fileutil"
	"github.com/eunmann/segyio/pkg/header"
	"github.com/eunmann/segyio/pkg/logging"
	"github.com/eunmann/segyio/pkg/segyerr"
	"github.com/eunmann/segyio/pkg/traceindex"
)

// HeaderRegionSize is the fixed textual plus binary header region.
const HeaderRegionSize = header.TextualSize + header.BinarySize

// File is an open SEG-Y file.
type File struct {
	path string
	f    *os.File
	opts Options
	log  zerolog.Logger

	textual    *header.TextualHeader
	binary     header.BinaryFileHeader
	traceProto header.TraceHeader

	// Disk images of the two headers as last read or written.
	diskText   []byte
	diskBinary []byte

	// Layout the index was built for.
	dataStart int64
	format    header.FormatCode
	strategy  traceindex.Strategy

	idx    *traceindex.Indexer
	w      *writer
	closed bool
}

// Open opens path as a SEG-Y file of the given revision tag ("Rev0",
// "Rev1"). A missing path is created holding a zero-filled header region.
// The headers are read and the trace index is built before Open returns.
func Open(path, tag string, opts ...Option) (*File, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	bh, th, err := o.Headers.Pair(tag)
	if err != nil {
		return nil, err
	}

	log := o.Logger.With().Str("path", path).Str("revision", tag).Logger()
	sf := &File{
		path:       path,
		opts:       o,
		log:        log,
		textual:    header.NewTextualHeader(),
		binary:     bh,
		traceProto: th,
		w:          newWriter(),
	}

	if err := sf.openHandle(); err != nil {
		return nil, err
	}
	if err := sf.load(); err != nil {
		sf.f.Close()
		if sf.idx != nil {
			sf.idx.Close()
		}
		return nil, err
	}
	return sf, nil
}

// With opens path, runs fn and closes the file on every exit path, committing
// pending writes. Errors from fn and from Close are both reported.
func With(path, tag string, fn func(*File) error, opts ...Option) (err error) {
	f, err := Open(path, tag, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return fn(f)
}

func (sf *File) openHandle() error {
	if sf.opts.ReadOnly {
		f, err := os.Open(sf.path)
		if err != nil {
			return fmt.Errorf("open %s: %w", sf.path, err)
		}
		sf.f = f
		return nil
	}

	created := !fileutil.Exists(sf.path)
	f, err := os.OpenFile(sf.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", sf.path, err)
	}
	if created {
		start := time.Now()
		if err := f.Truncate(HeaderRegionSize); err != nil {
			f.Close()
			return fmt.Errorf("size new file %s: %w", sf.path, err)
		}
		logging.FileCreated(sf.log, "open", time.Since(start)).
			Bytes("size", HeaderRegionSize).
			LogDebug("created empty SEG-Y file")
	}
	sf.f = f
	return nil
}

// load reads both headers and builds the index.
func (sf *File) load() error {
	region := make([]byte, HeaderRegionSize)
	n, err := sf.f.ReadAt(region, 0)
	if n < HeaderRegionSize {
		if err == nil || errors.Is(err, io.EOF) {
			return &segyerr.TruncationError{Path: sf.path, FileSize: int64(n), Expected: HeaderRegionSize}
		}
		return fmt.Errorf("read headers of %s: %w", sf.path, err)
	}

	if err := sf.textual.DecodeEBCDIC(region[:header.TextualSize]); err != nil {
		return err
	}
	if err := sf.binary.Load(region[header.TextualSize:]); err != nil {
		return err
	}
	if binconv.HostIsLittleEndian() {
		sf.binary.InvertByteOrder()
	}
	sf.diskText = append([]byte(nil), region[:header.TextualSize]...)
	sf.diskBinary = append([]byte(nil), region[header.TextualSize:]...)

	size, err := sf.size()
	if err != nil {
		return err
	}
	sf.dataStart = sf.computeDataStart()
	sf.format = sf.binary.FormatCode()

	if size <= HeaderRegionSize {
		// Header-only file: the format code may still be unset.
		if !sf.format.Supported() {
			return nil
		}
	} else if err := sf.binary.CheckConsistency(); err != nil {
		return err
	}
	return sf.buildIndex(size)
}

func (sf *File) computeDataStart() int64 {
	ext := sf.binary.ExtendedTextHeaders()
	if ext < 0 {
		sf.log.Warn().Int("extended_headers", ext).
			Msg("variable extended textual header count is not supported, assuming none")
		ext = 0
	}
	return HeaderRegionSize + int64(ext)*header.TextualSize
}

func (sf *File) size() (int64, error) {
	info, err := sf.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", sf.path, err)
	}
	return info.Size(), nil
}

// buildIndex creates the indexer for the current format and scans the file.
func (sf *File) buildIndex(size int64) error {
	sf.format = sf.binary.FormatCode()
	sf.strategy = traceindex.ChooseStrategy(sf.opts.IndexStrategy, size-sf.dataStart, *sf.opts.MemoryBudget)
	sidecar := fileutil.SidecarPath(sf.path)
	reuse := sf.opts.ReuseSidecar && sf.strategy == traceindex.Sidecar
	if reuse {
		if n, ok := fileutil.RecordFileValid(sidecar, traceindex.ItemSize); ok {
			sf.log.Debug().Str("sidecar", sidecar).Int64("items", n).Msg("reusing sidecar index")
		}
	}

	store, err := traceindex.NewStore(sf.strategy, sidecar, reuse)
	if err != nil {
		return err
	}
	fixed := 0
	if sf.binary.FixedLengthTraces() {
		fixed = int(sf.binary.Get(header.Binary.SamplesPerTrace))
	}
	idx, err := traceindex.NewIndexer(store, traceindex.Config{
		Path:         sf.path,
		DataStart:    sf.dataStart,
		SampleWidth:  sf.format.SampleWidth(),
		FixedSamples: fixed,
		TraceHeader:  sf.traceProto,
		Logger:       sf.log,
	})
	if err != nil {
		store.Close()
		return err
	}
	sf.idx = idx

	sf.log.Debug().
		Str("strategy", sf.strategy.String()).
		Str("budget_source", string(sf.opts.MemoryBudget.Source())).
		Str("format", sf.format.String()).
		Int64("data_start", sf.dataStart).
		Msg("indexing traces")
	if reuse {
		_, err = idx.Resume(sf.f, size)
		return err
	}
	return idx.Build(sf.f, size)
}

func (sf *File) checkOpen() error {
	if sf.closed {
		return fmt.Errorf("%s: %w", sf.path, ErrClosed)
	}
	return nil
}

func (sf *File) checkWritable() error {
	if err := sf.checkOpen(); err != nil {
		return err
	}
	if sf.opts.ReadOnly {
		return fmt.Errorf("%s: %w", sf.path, ErrReadOnly)
	}
	return nil
}

// Path returns the file path.
func (sf *File) Path() string { return sf.path }

// Revision returns the revision of the file's headers.
func (sf *File) Revision() header.Revision { return sf.binary.Revision() }

// Format returns the sample format code of the binary header.
func (sf *File) Format() header.FormatCode { return sf.binary.FormatCode() }

// DataStart returns the offset of the first trace.
func (sf *File) DataStart() int64 { return sf.dataStart }

// IndexStrategy returns the resolved index storage, or Auto while no index
// exists yet.
func (sf *File) IndexStrategy() traceindex.Strategy { return sf.strategy }

// BinaryHeader returns the in-memory binary header. Changes are written by
// Commit.
func (sf *File) BinaryHeader() header.BinaryFileHeader { return sf.binary }

// TextualHeader returns the in-memory textual header. Changes are written by
// Commit.
func (sf *File) TextualHeader() *header.TextualHeader { return sf.textual }

// TraceCount returns the number of committed traces.
func (sf *File) TraceCount() int {
	if sf.idx == nil {
		return 0
	}
	return sf.idx.Size()
}

// TraceLocation returns the index entry of trace n.
func (sf *File) TraceLocation(n int) (traceindex.Item, error) {
	if err := sf.checkOpen(); err != nil {
		return traceindex.Item{}, err
	}
	if sf.idx == nil {
		return traceindex.Item{}, segyerr.CheckIndex("trace", n, 0)
	}
	return sf.idx.Load(n)
}

// NewTrace returns a zeroed trace of n samples with a header of the file's
// revision and the file's sample format.
func (sf *File) NewTrace(n int) (*Trace, error) {
	samples, err := newSamples(sf.Format(), n)
	if err != nil {
		return nil, err
	}
	th := sf.traceProto.Clone()
	if err := th.SetNumSamples(n); err != nil {
		return nil, err
	}
	return &Trace{Header: th, format: sf.Format(), samples: samples}, nil
}

func (sf *File) readAt(p []byte, off int64, what string) error {
	n, err := sf.f.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return segyerr.Wrap(ErrTruncated, fmt.Sprintf("read %s at offset %d of %s", what, off, sf.path), err)
}

func (sf *File) decodeHeader(raw []byte) (header.TraceHeader, error) {
	th := sf.traceProto.Clone()
	if err := th.Load(raw); err != nil {
		return nil, err
	}
	if binconv.HostIsLittleEndian() {
		th.InvertByteOrder()
	}
	return th, nil
}

// ReadTraceHeader reads only the header of trace n.
func (sf *File) ReadTraceHeader(n int) (header.TraceHeader, error) {
	item, err := sf.TraceLocation(n)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, header.TraceSize)
	if err := sf.readAt(raw, item.Position, "trace header"); err != nil {
		return nil, err
	}
	return sf.decodeHeader(raw)
}

// ReadTrace reads trace n: its header and its samples, converted from IBM
// floating point when the file uses format 1.
func (sf *File) ReadTrace(n int) (*Trace, error) {
	item, err := sf.TraceLocation(n)
	if err != nil {
		return nil, err
	}
	width := int64(sf.format.SampleWidth())
	raw := make([]byte, int64(header.TraceSize)+item.NumSamples*width)
	if err := sf.readAt(raw, item.Position, "trace"); err != nil {
		return nil, err
	}
	th, err := sf.decodeHeader(raw[:header.TraceSize])
	if err != nil {
		return nil, err
	}
	samples, err := decodeSamples(sf.format, raw[header.TraceSize:])
	if err != nil {
		return nil, err
	}
	return &Trace{Header: th, format: sf.format, samples: samples}, nil
}

func (sf *File) checkTrace(tr *Trace) error {
	format := sf.Format()
	if !format.Supported() {
		return fmt.Errorf("%w: binary header format code %s cannot hold traces; set %s first",
			ErrFormatViolation, format, header.Binary.FormatCode)
	}
	if tr.format != format {
		return fmt.Errorf("%w: trace format %s, file format %s", ErrUnsupportedConversion, tr.format, format)
	}
	if sf.binary.FixedLengthTraces() {
		if want := int(sf.binary.Get(header.Binary.SamplesPerTrace)); tr.Len() != want {
			return fmt.Errorf("%w: fixed length file holds %d samples per trace, trace has %d",
				ErrFormatViolation, want, tr.Len())
		}
	}
	return nil
}

// OverwriteTrace queues tr to replace trace n on the next commit. The last
// overwrite queued for n wins. The sample count must equal that of the trace
// being replaced; n may name a trace appended but not yet committed.
func (sf *File) OverwriteTrace(tr *Trace, n int) error {
	if err := sf.checkWritable(); err != nil {
		return err
	}
	if err := sf.checkTrace(tr); err != nil {
		return err
	}
	if err := segyerr.CheckIndex("trace", n, sf.TraceCount()+sf.w.appended); err != nil {
		return err
	}
	if n < sf.TraceCount() {
		item, err := sf.idx.Load(n)
		if err != nil {
			return err
		}
		if item.NumSamples != int64(tr.Len()) {
			return fmt.Errorf("%w: overwrite of trace %d with %d samples, it holds %d",
				ErrFormatViolation, n, tr.Len(), item.NumSamples)
		}
	}
	data, err := tr.encode()
	if err != nil {
		return err
	}
	sf.w.enqueueOverwrite(n, data, tr.Len())
	return nil
}

// AppendTrace queues tr to be written after the last trace on the next
// commit.
func (sf *File) AppendTrace(tr *Trace) error {
	if err := sf.checkWritable(); err != nil {
		return err
	}
	if err := sf.checkTrace(tr); err != nil {
		return err
	}
	data, err := tr.encode()
	if err != nil {
		return err
	}
	sf.w.enqueueAppend(data)
	return nil
}

// Pending reports whether uncommitted writes or header changes exist.
func (sf *File) Pending() bool {
	if sf.w.pending() {
		return true
	}
	return !bytes.Equal(sf.textual.EncodeEBCDIC(), sf.diskText) ||
		!bytes.Equal(sf.binary.Encode(), sf.diskBinary)
}

// Discard drops queued appends and overwrites without writing them. Header
// edits are kept. Use it after a failed Commit so Close does not retry.
func (sf *File) Discard() {
	sf.w.reset()
}

// Commit writes changed headers, flushes appended traces at end of file,
// extends the index over them and then applies queued overwrites.
func (sf *File) Commit() error {
	if err := sf.checkOpen(); err != nil {
		return err
	}
	if sf.opts.ReadOnly {
		if sf.Pending() {
			return fmt.Errorf("commit header changes to %s: %w", sf.path, ErrReadOnly)
		}
		return nil
	}
	start := time.Now()
	appended := sf.w.appended
	overwrites := len(sf.w.overwrites)

	headersWritten, err := sf.commitHeaders()
	if err != nil {
		return err
	}
	if err := sf.commitAppends(); err != nil {
		return err
	}
	if err := sf.commitOverwrites(); err != nil {
		return err
	}

	if appended > 0 || overwrites > 0 || headersWritten > 0 {
		logging.PhaseComplete(sf.log, "commit", time.Since(start)).
			Int("appended", appended).
			Int("overwritten", overwrites).
			Int("headers_written", headersWritten).
			Int("traces", sf.TraceCount()).
			LogDebug("commit complete")
	}
	return nil
}

func (sf *File) commitHeaders() (int, error) {
	written := 0
	text := sf.textual.EncodeEBCDIC()
	if !bytes.Equal(text, sf.diskText) {
		if _, err := sf.f.WriteAt(text, 0); err != nil {
			return written, fmt.Errorf("write textual header of %s: %w", sf.path, err)
		}
		sf.diskText = text
		written++
	}

	bin := sf.binary.Encode()
	if bytes.Equal(bin, sf.diskBinary) {
		return written, nil
	}
	if err := sf.binary.CheckConsistency(); err != nil {
		return written, err
	}
	if err := sf.checkLayoutUnchanged(); err != nil {
		return written, err
	}
	if _, err := sf.f.WriteAt(bin, header.TextualSize); err != nil {
		return written, fmt.Errorf("write binary header of %s: %w", sf.path, err)
	}
	sf.diskBinary = bin
	return written + 1, nil
}

// checkLayoutUnchanged refuses binary header edits that would reinterpret
// traces already on disk.
func (sf *File) checkLayoutUnchanged() error {
	size, err := sf.size()
	if err != nil {
		return err
	}
	if size <= sf.dataStart && sf.TraceCount() == 0 {
		// No traces yet: adopt the new layout, size the header region to
		// it and drop any index built for the old one so the next append
		// rebuilds it.
		sf.dataStart = sf.computeDataStart()
		sf.format = sf.binary.FormatCode()
		if err := sf.dropIndex(); err != nil {
			return err
		}
		_, err := sf.fitHeaderRegion(size)
		return err
	}
	if f := sf.binary.FormatCode(); f != sf.format {
		return fmt.Errorf("%w: format code cannot change from %s to %s once traces exist", ErrFormatViolation, sf.format, f)
	}
	if ds := sf.computeDataStart(); ds != sf.dataStart {
		return fmt.Errorf("%w: extended textual header count cannot change once traces exist", ErrFormatViolation)
	}
	return nil
}

func (sf *File) commitAppends() error {
	if len(sf.w.appendBuf) == 0 {
		return nil
	}
	size, err := sf.size()
	if err != nil {
		return err
	}
	if sf.TraceCount() == 0 && size != sf.dataStart {
		if err := sf.dropIndex(); err != nil {
			return err
		}
	}
	if sf.idx == nil {
		if size, err = sf.fitHeaderRegion(size); err != nil {
			return err
		}
		if err := sf.buildIndex(size); err != nil {
			return err
		}
	}
	if _, err := sf.f.WriteAt(sf.w.appendBuf, size); err != nil {
		return fmt.Errorf("append %d traces to %s: %w", sf.w.appended, sf.path, err)
	}
	newSize := size + int64(len(sf.w.appendBuf))
	sf.w.clearAppends()

	sf.idx.MarkStale()
	return sf.idx.Update(sf.f, newSize)
}

// dropIndex releases the index so the next append rebuilds it for the
// current layout.
func (sf *File) dropIndex() error {
	if sf.idx == nil {
		return nil
	}
	err := sf.idx.Close()
	sf.idx = nil
	sf.strategy = traceindex.Auto
	if err != nil {
		return fmt.Errorf("release trace index of %s: %w", sf.path, err)
	}
	return nil
}

// fitHeaderRegion sizes a trace-less file to end exactly at the data start:
// missing extended textual headers are filled with EBCDIC blanks, surplus
// ones are cut.
func (sf *File) fitHeaderRegion(size int64) (int64, error) {
	switch {
	case size == sf.dataStart:
		return size, nil
	case size < HeaderRegionSize:
		return 0, fmt.Errorf("%w: %s is %d bytes, shorter than its headers", ErrFormatViolation, sf.path, size)
	case size < sf.dataStart:
		blank := bytes.Repeat([]byte{binconv.ASCIIToEBCDIC(' ')}, int(sf.dataStart-size))
		if _, err := sf.f.WriteAt(blank, size); err != nil {
			return 0, segyerr.Wrap(ErrTruncated, "write extended textual headers of "+sf.path, err)
		}
	default:
		if err := sf.f.Truncate(sf.dataStart); err != nil {
			return 0, segyerr.Wrap(ErrFormatViolation, "drop extended textual headers of "+sf.path, err)
		}
	}
	sf.log.Debug().Int64("from", size).Int64("to", sf.dataStart).Msg("resized header region")
	return sf.dataStart, nil
}

// commitOverwrites checks every queued overwrite against the index before
// writing any of them.
func (sf *File) commitOverwrites() error {
	order := sf.w.overwriteOrder()
	positions := make([]int64, len(order))
	for i, n := range order {
		ow := sf.w.overwrites[n]
		item, err := sf.idx.Load(n)
		if err != nil {
			return err
		}
		if item.NumSamples != int64(ow.numSamples) {
			return fmt.Errorf("%w: overwrite of trace %d with %d samples, it holds %d",
				ErrFormatViolation, n, ow.numSamples, item.NumSamples)
		}
		positions[i] = item.Position
	}
	for i, n := range order {
		if _, err := sf.f.WriteAt(sf.w.overwrites[n].data, positions[i]); err != nil {
			return fmt.Errorf("overwrite trace %d of %s: %w", n, sf.path, err)
		}
		delete(sf.w.overwrites, n)
	}
	return nil
}

// Close commits pending writes and releases the file and its index. A failed
// commit is reported, and the handle is released regardless.
func (sf *File) Close() error {
	if sf.closed {
		return nil
	}
	err := sf.Commit()
	if sf.idx != nil {
		err = errors.Join(err, sf.idx.Close())
	}
	err = errors.Join(err, sf.f.Close())
	sf.closed = true
	return err
}
