package header

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/eunmann/segyio/pkg/binconv"
	"github.com/eunmann/segyio/pkg/segyerr"
)

// Textual header geometry.
const (
	TextLines   = 40
	TextColumns = 80
	TextualSize = TextLines * TextColumns
)

// TextualHeader is the 3200-byte card-image header, held as ASCII in memory
// and persisted as EBCDIC. Every line is exactly TextColumns bytes.
type TextualHeader struct {
	data [TextualSize]byte
}

// NewTextualHeader returns a header filled with spaces.
func NewTextualHeader() *TextualHeader {
	h := &TextualHeader{}
	for i := range h.data {
		h.data[i] = ' '
	}
	return h
}

func (h *TextualHeader) line(i int) []byte {
	return h.data[i*TextColumns : (i+1)*TextColumns]
}

// Line returns line i without modification, trailing spaces included.
func (h *TextualHeader) Line(i int) (string, error) {
	if err := segyerr.CheckIndex("textual header line", i, TextLines); err != nil {
		return "", err
	}
	return string(h.line(i)), nil
}

// SetLine replaces line i. Shorter text is padded with spaces; text longer
// than TextColumns is rejected and the line is left as it was.
func (h *TextualHeader) SetLine(i int, text string) error {
	if err := segyerr.CheckIndex("textual header line", i, TextLines); err != nil {
		return err
	}
	if len(text) > TextColumns {
		return fmt.Errorf("%w: line %d is %d characters, limit is %d", segyerr.ErrOutOfRange, i, len(text), TextColumns)
	}
	dst := h.line(i)
	n := copy(dst, text)
	for j := n; j < TextColumns; j++ {
		dst[j] = ' '
	}
	return nil
}

// CopyLine sets line dst to the bytes of line src.
func (h *TextualHeader) CopyLine(dst, src int) error {
	if err := segyerr.CheckIndex("textual header line", src, TextLines); err != nil {
		return err
	}
	if err := segyerr.CheckIndex("textual header line", dst, TextLines); err != nil {
		return err
	}
	copy(h.line(dst), h.line(src))
	return nil
}

// Char returns the character at line, col.
func (h *TextualHeader) Char(line, col int) (byte, error) {
	if err := h.checkCell(line, col); err != nil {
		return 0, err
	}
	return h.data[line*TextColumns+col], nil
}

// SetChar stores c at line, col.
func (h *TextualHeader) SetChar(line, col int, c byte) error {
	if err := h.checkCell(line, col); err != nil {
		return err
	}
	h.data[line*TextColumns+col] = c
	return nil
}

func (h *TextualHeader) checkCell(line, col int) error {
	if err := segyerr.CheckIndex("textual header line", line, TextLines); err != nil {
		return err
	}
	return segyerr.CheckIndex("textual header column", col, TextColumns)
}

// DecodeEBCDIC loads the header from its on-disk EBCDIC form.
func (h *TextualHeader) DecodeEBCDIC(p []byte) error {
	if len(p) != TextualSize {
		return fmt.Errorf("%w: textual header is %d bytes, want %d", segyerr.ErrFormatViolation, len(p), TextualSize)
	}
	copy(h.data[:], p)
	binconv.DecodeEBCDIC(h.data[:])
	return nil
}

// EncodeEBCDIC returns the on-disk form of the header.
func (h *TextualHeader) EncodeEBCDIC() []byte {
	out := make([]byte, TextualSize)
	copy(out, h.data[:])
	binconv.EncodeEBCDIC(out)
	return out
}

// Bytes returns a copy of the ASCII contents.
func (h *TextualHeader) Bytes() []byte {
	return append([]byte(nil), h.data[:]...)
}

// Print writes the header as 40 newline-terminated lines. Non-printable
// bytes are shown as '.'.
func (h *TextualHeader) Print(w io.Writer) error {
	var buf bytes.Buffer
	buf.Grow(TextualSize + TextLines)
	for i := 0; i < TextLines; i++ {
		for _, c := range h.line(i) {
			if c < 0x20 || c > 0x7e {
				c = '.'
			}
			buf.WriteByte(c)
		}
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Clone returns an independent copy.
func (h *TextualHeader) Clone() *TextualHeader {
	c := *h
	return &c
}

func (h *TextualHeader) String() string {
	var sb strings.Builder
	_ = h.Print(&sb)
	return sb.String()
}
