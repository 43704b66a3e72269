// Package field gives named, typed, offset-based access into fixed-size
// header records.
//
// A Layout describes the fields of one record shape; a Buffer holds the raw
// bytes of one record together with the byte order they are currently laid
// out in. Values are decoded and encoded explicitly per field, never through
// pointer reinterpretation, so the exact on-disk layout is preserved.
package field

import (
	"fmt"
	"sort"

	"github.com/eunmann/segyio/pkg/segyerr"
)

// Kind is the decoded type of a field.
type Kind uint8

const (
	// Int16 is a two's complement 16-bit integer.
	Int16 Kind = 2
	// Int32 is a two's complement 32-bit integer.
	Int32 Kind = 4
)

// Width returns the field width in bytes.
func (k Kind) Width() int { return int(k) }

func (k Kind) String() string {
	switch k {
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Def describes one field: its label, byte offset and decoded type.
type Def struct {
	Name   string
	Offset int
	Kind   Kind
}

// I16 declares a 16-bit field.
func I16(name string, offset int) Def { return Def{Name: name, Offset: offset, Kind: Int16} }

// I32 declares a 32-bit field.
func I32(name string, offset int) Def { return Def{Name: name, Offset: offset, Kind: Int32} }

func (d Def) end() int { return d.Offset + d.Kind.Width() }

// Fits reports whether v can be stored in the field without truncation.
func (d Def) Fits(v int32) bool {
	if d.Kind == Int16 {
		return v >= -1<<15 && v < 1<<15
	}
	return true
}

// Layout is an immutable, validated set of field definitions over a record of
// fixed size. Fields keep their declaration order for printing.
type Layout struct {
	name  string
	size  int
	defs  []Def
	index map[Def]struct{}
}

// NewLayout validates defs against size and returns the layout. It panics if
// a field falls outside the record or overlaps another; layouts are static
// tables, so this is a programming error.
func NewLayout(name string, size int, defs ...Def) *Layout {
	l := &Layout{
		name:  name,
		size:  size,
		defs:  append([]Def(nil), defs...),
		index: make(map[Def]struct{}, len(defs)),
	}

	sorted := append([]Def(nil), defs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	for i, d := range sorted {
		if d.Kind != Int16 && d.Kind != Int32 {
			panic(fmt.Sprintf("field: %s: %q has unsupported kind %v", name, d.Name, d.Kind))
		}
		if d.Offset < 0 || d.end() > size {
			panic(fmt.Sprintf("field: %s: %q at %d exceeds record size %d", name, d.Name, d.Offset, size))
		}
		if i > 0 && sorted[i-1].end() > d.Offset {
			panic(fmt.Sprintf("field: %s: %q overlaps %q", name, d.Name, sorted[i-1].Name))
		}
		l.index[d] = struct{}{}
	}
	return l
}

// Extend returns a new layout with the fields of l followed by defs.
func (l *Layout) Extend(name string, defs ...Def) *Layout {
	all := append(append([]Def(nil), l.defs...), defs...)
	return NewLayout(name, l.size, all...)
}

// Name returns the layout label.
func (l *Layout) Name() string { return l.name }

// Size returns the record size in bytes.
func (l *Layout) Size() int { return l.size }

// Defs returns the fields in declaration order.
func (l *Layout) Defs() []Def { return append([]Def(nil), l.defs...) }

// Contains reports whether d belongs to the layout.
func (l *Layout) Contains(d Def) bool {
	_, ok := l.index[d]
	return ok
}

func (l *Layout) mustContain(d Def) {
	if !l.Contains(d) {
		panic(fmt.Sprintf("field: %s has no field %q at offset %d", l.name, d.Name, d.Offset))
	}
}

// errFieldRange is returned when a value does not fit its field.
func errFieldRange(d Def, v int32) error {
	return fmt.Errorf("%w: value %d does not fit %s field %q", segyerr.ErrOutOfRange, v, d.Kind, d.Name)
}
