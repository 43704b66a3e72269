// Package benchutil provides synthetic SEG-Y generation for benchmarks and
// testing.
package benchutil

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/eunmann/segyio/pkg/binconv"
	"github.com/eunmann/segyio/pkg/header"
)

// GeneratorConfig configures synthetic file generation.
type GeneratorConfig struct {
	// Traces is the number of traces to write.
	Traces int
	// MinSamples and MaxSamples bound the per-trace sample count. Equal
	// values produce fixed-length traces.
	MinSamples, MaxSamples int
	// Format is the sample format code.
	Format header.FormatCode
	// FixedLengthFlag sets the Rev1 fixed-length flag. Only valid when
	// MinSamples == MaxSamples.
	FixedLengthFlag bool
	// ExtendedHeaders is the number of extended textual headers.
	ExtendedHeaders int
	// Seed for reproducible generation. 0 = use default seed.
	Seed int64
}

// DefaultConfig returns variable-length IEEE traces of 250 to 1500 samples.
func DefaultConfig(traces int) GeneratorConfig {
	return GeneratorConfig{
		Traces:     traces,
		MinSamples: 250,
		MaxSamples: 1500,
		Format:     header.FormatIEEEFloat32,
		Seed:       BenchmarkSeed,
	}
}

// FixedConfig returns fixed-length traces with the Rev1 flag set.
func FixedConfig(traces, samples int, format header.FormatCode) GeneratorConfig {
	return GeneratorConfig{
		Traces:          traces,
		MinSamples:      samples,
		MaxSamples:      samples,
		Format:          format,
		FixedLengthFlag: true,
		Seed:            BenchmarkSeed,
	}
}

// Generator writes synthetic SEG-Y files.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// NewGenerator creates a new file generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = BenchmarkSeed
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (g *Generator) validate() error {
	c := g.cfg
	if !c.Format.Supported() {
		return fmt.Errorf("format %s cannot be generated", c.Format)
	}
	if c.MinSamples < 0 || c.MaxSamples < c.MinSamples || c.MaxSamples > math.MaxInt16 {
		return fmt.Errorf("invalid sample range [%d, %d]", c.MinSamples, c.MaxSamples)
	}
	if c.FixedLengthFlag && c.MinSamples != c.MaxSamples {
		return fmt.Errorf("fixed-length flag needs a single sample count")
	}
	return nil
}

// WriteFile writes the file to path and returns its size.
func (g *Generator) WriteFile(path string) (int64, error) {
	if err := g.validate(); err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	w := bufio.NewWriterSize(f, 1<<20)
	size, err := g.write(w)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return size, err
}

func (g *Generator) write(w *bufio.Writer) (int64, error) {
	c := g.cfg
	text := header.NewTextualHeader()
	if err := text.SetLine(0, "C 1 SYNTHETIC SEG-Y"); err != nil {
		return 0, err
	}
	bh := header.NewBinaryHeaderRev1()
	if err := bh.Set(header.Binary.FormatCode, int32(c.Format)); err != nil {
		return 0, err
	}
	if err := bh.Set(header.Binary.SampleInterval, 4000); err != nil {
		return 0, err
	}
	if c.FixedLengthFlag {
		if err := bh.Set(header.Binary.SamplesPerTrace, int32(c.MinSamples)); err != nil {
			return 0, err
		}
		if err := bh.SetExtension(header.BinaryRev1.FixedLengthTraces, 1); err != nil {
			return 0, err
		}
	}
	if err := bh.SetExtension(header.BinaryRev1.ExtendedTextHeaders, int32(c.ExtendedHeaders)); err != nil {
		return 0, err
	}

	var size int64
	emit := func(p []byte) error {
		n, err := w.Write(p)
		size += int64(n)
		return err
	}
	if err := emit(text.EncodeEBCDIC()); err != nil {
		return size, err
	}
	if err := emit(bh.Encode()); err != nil {
		return size, err
	}
	ext := header.NewTextualHeader()
	for i := 0; i < c.ExtendedHeaders; i++ {
		if err := emit(ext.EncodeEBCDIC()); err != nil {
			return size, err
		}
	}

	width := c.Format.SampleWidth()
	payload := make([]byte, c.MaxSamples*width)
	th := header.NewTraceHeaderRev1()
	for i := 0; i < c.Traces; i++ {
		ns := c.MinSamples
		if c.MaxSamples > c.MinSamples {
			ns += g.rng.Intn(c.MaxSamples - c.MinSamples + 1)
		}
		if err := th.SetNumSamples(ns); err != nil {
			return size, err
		}
		if err := th.Set(header.Trace.SequenceInFile, int32(i+1)); err != nil {
			return size, err
		}
		if err := th.SetExtension(header.TraceRev1.Inline, int32(i/100)); err != nil {
			return size, err
		}
		if err := th.SetExtension(header.TraceRev1.Crossline, int32(i%100)); err != nil {
			return size, err
		}
		if err := emit(th.Encode()); err != nil {
			return size, err
		}
		p := payload[:ns*width]
		g.fillSamples(p)
		if err := emit(p); err != nil {
			return size, err
		}
	}
	return size, nil
}

// fillSamples writes big-endian samples of the configured format into p.
func (g *Generator) fillSamples(p []byte) {
	width := g.cfg.Format.SampleWidth()
	for off := 0; off < len(p); off += width {
		v := g.rng.NormFloat64() * 100
		switch g.cfg.Format {
		case header.FormatIBMFloat32:
			binary.BigEndian.PutUint32(p[off:], binconv.Float32ToIBM(float32(v)))
		case header.FormatIEEEFloat32:
			binary.BigEndian.PutUint32(p[off:], math.Float32bits(float32(v)))
		case header.FormatInt32:
			binary.BigEndian.PutUint32(p[off:], uint32(int32(v)))
		case header.FormatInt16:
			binary.BigEndian.PutUint16(p[off:], uint16(int16(v)))
		case header.FormatInt8:
			p[off] = byte(int8(v / 8))
		}
	}
}
