// Package archive packs whole SEG-Y files into zstd-compressed archives and
// restores them byte for byte.
//
// Archive file format:
//
// Header (32 bytes, little-endian):
//
//	Magic:        4 bytes  ("SGYZ")
//	Version:      4 bytes  (1)
//	Flags:        4 bytes  (bit 0: compressed, bits 1-3: compression type)
//	OriginalSize: 8 bytes  (size of the SEG-Y file)
//	TraceCount:   8 bytes  (traces indexed when packed)
//	Reserved:     4 bytes
//
// Body: zstd stream of the original file.
package archive

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/eunmann/segyio/internal/logctx"
	"github.com/eunmann/segyio/pkg/fileutil"
	"github.com/eunmann/segyio/pkg/logging"
	"github.com/eunmann/segyio/pkg/segy"
)

const (
	// HeaderSize is the fixed archive header length.
	HeaderSize = 32
	// Version is the archive format version written by Pack.
	Version = 1

	magic = "SGYZ"

	compressionTypeZstd = 1
	flagCompressed      = 1 << 0
	flagCompressionMask = 0x0E
)

// ErrNotArchive is returned for files that do not start with an archive
// header of a known version.
var ErrNotArchive = errors.New("not a segy archive")

// ErrCorrupt is returned when the decompressed body disagrees with the
// header.
var ErrCorrupt = errors.New("corrupt segy archive")

// Level is the compression effort.
type Level int

const (
	// LevelFastest prioritizes speed over ratio.
	LevelFastest Level = 1
	// LevelDefault balances speed and ratio.
	LevelDefault Level = 3
	// LevelBetter prioritizes ratio over speed.
	LevelBetter Level = 6
)

func (l Level) encoderLevel() zstd.EncoderLevel {
	switch l {
	case LevelFastest:
		return zstd.SpeedFastest
	case LevelBetter:
		return zstd.SpeedBetterCompression
	}
	return zstd.SpeedDefault
}

// ParseLevel accepts fastest, default and better.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "fastest", "fast":
		return LevelFastest, nil
	case "", "default":
		return LevelDefault, nil
	case "better", "best":
		return LevelBetter, nil
	}
	return 0, fmt.Errorf("unknown compression level %q", s)
}

// Header describes an archive.
type Header struct {
	Version      uint32
	Flags        uint32
	OriginalSize uint64
	TraceCount   uint64
}

// Compressed reports whether the body is compressed.
func (h Header) Compressed() bool { return h.Flags&flagCompressed != 0 }

func (h Header) encode() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint32(buf[8:12], h.Flags)
	binary.LittleEndian.PutUint64(buf[12:20], h.OriginalSize)
	binary.LittleEndian.PutUint64(buf[20:28], h.TraceCount)
	return buf
}

func decodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize || string(buf[0:4]) != magic {
		return Header{}, ErrNotArchive
	}
	h := Header{
		Version:      binary.LittleEndian.Uint32(buf[4:8]),
		Flags:        binary.LittleEndian.Uint32(buf[8:12]),
		OriginalSize: binary.LittleEndian.Uint64(buf[12:20]),
		TraceCount:   binary.LittleEndian.Uint64(buf[20:28]),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: version %d", ErrNotArchive, h.Version)
	}
	if h.Compressed() && (h.Flags&flagCompressionMask)>>1 != compressionTypeZstd {
		return Header{}, fmt.Errorf("%w: compression type %d", ErrNotArchive, (h.Flags&flagCompressionMask)>>1)
	}
	return h, nil
}

// PackOptions configures Pack.
type PackOptions struct {
	// Level is the compression effort. Default: LevelDefault
	Level Level
	// Revision is the tag src is validated against. Default: "Rev1"
	Revision string
}

// Pack validates src as a SEG-Y file of the given revision, then writes a
// compressed archive of it to dst. dst is only replaced once the archive is
// complete.
func Pack(ctx context.Context, src, dst string, opts PackOptions) (Header, error) {
	log := logctx.FromContext(ctx)
	if opts.Level == 0 {
		opts.Level = LevelDefault
	}
	if opts.Revision == "" {
		opts.Revision = "Rev1"
	}
	start := time.Now()

	sf, err := segy.Open(src, opts.Revision, segy.WithReadOnly(), segy.WithLogger(log))
	if err != nil {
		return Header{}, fmt.Errorf("pack %s: %w", src, err)
	}
	traces := sf.TraceCount()
	if err := sf.Close(); err != nil {
		return Header{}, err
	}

	in, err := os.Open(src)
	if err != nil {
		return Header{}, fmt.Errorf("pack %s: %w", src, err)
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return Header{}, fmt.Errorf("stat %s: %w", src, err)
	}

	hdr := Header{
		Version:      Version,
		Flags:        uint32(flagCompressed | compressionTypeZstd<<1),
		OriginalSize: uint64(info.Size()),
		TraceCount:   uint64(traces),
	}

	var packed int64
	err = fileutil.WriteAtomic(dst, func(out *os.File) error {
		if err := writeArchive(ctx, out, in, hdr, opts.Level); err != nil {
			return err
		}
		if fi, err := out.Stat(); err == nil {
			packed = fi.Size()
		}
		return nil
	})
	if err != nil {
		return Header{}, err
	}

	logging.FileCreated(log, "pack", time.Since(start)).
		Str("archive", dst).
		Bytes("original_size", info.Size()).
		Bytes("archive_size", packed).
		Count("traces", int64(traces)).
		Throughput(info.Size()).
		LogDebug("archive written")
	return hdr, nil
}

func writeArchive(ctx context.Context, out io.Writer, in io.Reader, hdr Header, level Level) error {
	if _, err := out.Write(hdr.encode()); err != nil {
		return fmt.Errorf("write archive header: %w", err)
	}
	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(level.encoderLevel()))
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	n, err := io.Copy(enc, &ctxReader{ctx: ctx, r: bufio.NewReaderSize(in, 1<<20)})
	if err != nil {
		enc.Close()
		return fmt.Errorf("compress: %w", err)
	}
	if uint64(n) != hdr.OriginalSize {
		enc.Close()
		return fmt.Errorf("source changed while packing: read %d bytes, expected %d", n, hdr.OriginalSize)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish zstd stream: %w", err)
	}
	return nil
}

// ReadHeader reads the header of the archive at path.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()
	return readHeader(f, path)
}

func readHeader(r io.Reader, path string) (Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("%s: %w", path, ErrNotArchive)
		}
		return Header{}, fmt.Errorf("read archive header: %w", err)
	}
	h, err := decodeHeader(buf)
	if err != nil {
		return Header{}, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// Unpack restores the SEG-Y file stored in the archive src to dst. The
// restored size is checked against the header before dst is replaced.
func Unpack(ctx context.Context, src, dst string) (Header, error) {
	log := logctx.FromContext(ctx)
	start := time.Now()

	in, err := os.Open(src)
	if err != nil {
		return Header{}, fmt.Errorf("open archive: %w", err)
	}
	defer in.Close()
	hdr, err := readHeader(in, src)
	if err != nil {
		return Header{}, err
	}

	err = fileutil.WriteAtomic(dst, func(out *os.File) error {
		w := bufio.NewWriterSize(out, 1<<20)
		n, err := decompress(ctx, w, in, hdr)
		if err == nil {
			err = w.Flush()
		}
		if err != nil {
			return err
		}
		if uint64(n) != hdr.OriginalSize {
			return fmt.Errorf("%w: restored %d bytes, header records %d", ErrCorrupt, n, hdr.OriginalSize)
		}
		return nil
	})
	if err != nil {
		return Header{}, err
	}

	logging.FileCreated(log, "unpack", time.Since(start)).
		Str("output", dst).
		Bytes("size", int64(hdr.OriginalSize)).
		Count("traces", int64(hdr.TraceCount)).
		Throughput(int64(hdr.OriginalSize)).
		LogDebug("archive restored")
	return hdr, nil
}

func decompress(ctx context.Context, w io.Writer, body io.Reader, hdr Header) (int64, error) {
	if !hdr.Compressed() {
		return io.Copy(w, &ctxReader{ctx: ctx, r: body})
	}
	dec, err := zstd.NewReader(body)
	if err != nil {
		return 0, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()
	n, err := io.Copy(w, &ctxReader{ctx: ctx, r: dec})
	if err != nil {
		if ctx.Err() != nil {
			return n, err
		}
		return n, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return n, nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
