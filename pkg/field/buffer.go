package field

import (
	"encoding/binary"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/eunmann/segyio/pkg/binconv"
)

// Buffer is one fixed-size record described by a Layout.
//
// The bytes are kept in a known byte order: BigEndian after Load, which is the
// SEG-Y disk order, or the opposite one after InvertByteOrder. Get and Set
// honour the current order, so callers never see swapped values.
type Buffer struct {
	layout *Layout
	data   []byte
	order  binary.ByteOrder
}

// New returns a zero-filled big-endian buffer for l.
func New(l *Layout) *Buffer {
	return &Buffer{
		layout: l,
		data:   make([]byte, l.size),
		order:  binary.BigEndian,
	}
}

// Layout returns the buffer's layout.
func (b *Buffer) Layout() *Layout { return b.layout }

// Order returns the byte order the known fields are currently stored in.
func (b *Buffer) Order() binary.ByteOrder { return b.order }

// Bytes exposes the raw record. Bytes outside known fields are carried
// verbatim.
func (b *Buffer) Bytes() []byte { return b.data }

// Int16 decodes the 16-bit value at off.
func (b *Buffer) Int16(off int) int16 {
	return int16(b.order.Uint16(b.data[off:]))
}

// SetInt16 encodes v at off.
func (b *Buffer) SetInt16(off int, v int16) {
	b.order.PutUint16(b.data[off:], uint16(v))
}

// Int32 decodes the 32-bit value at off.
func (b *Buffer) Int32(off int) int32 {
	return int32(b.order.Uint32(b.data[off:]))
}

// SetInt32 encodes v at off.
func (b *Buffer) SetInt32(off int, v int32) {
	b.order.PutUint32(b.data[off:], uint32(v))
}

// Get decodes field d, widened to int32. d must belong to the layout.
func (b *Buffer) Get(d Def) int32 {
	b.layout.mustContain(d)
	if d.Kind == Int16 {
		return int32(b.Int16(d.Offset))
	}
	return b.Int32(d.Offset)
}

// Set encodes v into field d. It fails without touching the buffer when v
// does not fit the field width.
func (b *Buffer) Set(d Def, v int32) error {
	b.layout.mustContain(d)
	if !d.Fits(v) {
		return errFieldRange(d, v)
	}
	if d.Kind == Int16 {
		b.SetInt16(d.Offset, int16(v))
		return nil
	}
	b.SetInt32(d.Offset, v)
	return nil
}

// InvertByteOrder swaps every known multi-byte field in place and flips the
// recorded order. Applying it twice restores the original bytes.
func (b *Buffer) InvertByteOrder() {
	for _, d := range b.layout.defs {
		binconv.InvertBytes(b.data[d.Offset:d.end()])
	}
	if b.order == binary.ByteOrder(binary.BigEndian) {
		b.order = binary.LittleEndian
	} else {
		b.order = binary.BigEndian
	}
}

// Load copies a big-endian record read from disk into the buffer.
func (b *Buffer) Load(p []byte) error {
	if len(p) != b.layout.size {
		return fmt.Errorf("%s: got %d bytes, want %d", b.layout.name, len(p), b.layout.size)
	}
	copy(b.data, p)
	b.order = binary.BigEndian
	return nil
}

// Encode returns a big-endian copy of the record, ready to be written to
// disk. The buffer itself is left in its current order.
func (b *Buffer) Encode() []byte {
	out := append([]byte(nil), b.data...)
	if b.order != binary.ByteOrder(binary.BigEndian) {
		for _, d := range b.layout.defs {
			binconv.InvertBytes(out[d.Offset:d.end()])
		}
	}
	return out
}

// Clone returns an independent copy sharing only the immutable layout.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		layout: b.layout,
		data:   append([]byte(nil), b.data...),
		order:  b.order,
	}
}

// Print writes one "label: value" line per field in declaration order.
func (b *Buffer) Print(w io.Writer) error {
	return b.PrintDefs(w, b.layout.defs)
}

// PrintDefs writes the given fields only.
func (b *Buffer) PrintDefs(w io.Writer, defs []Def) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	for _, d := range defs {
		if _, err := fmt.Fprintf(tw, "%s:\t%d\n", d.Name, b.Get(d)); err != nil {
			return err
		}
	}
	return tw.Flush()
}
