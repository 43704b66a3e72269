package field

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eunmann/segyio/pkg/segyerr"
)

var (
	testID    = I32("identifier", 0)
	testCount = I16("count", 4)
	testCode  = I16("code", 8)
	testExtra = I32("extra", 12)

	testLayout = NewLayout("test record", 16, testID, testCount, testCode)
	testWide   = testLayout.Extend("test record wide", testExtra)
)

func TestGetSetBigEndianLayout(t *testing.T) {
	b := New(testLayout)
	require.NoError(t, b.Set(testID, 0x01020304))
	require.NoError(t, b.Set(testCount, -2))

	assert.Equal(t, int32(0x01020304), b.Get(testID))
	assert.Equal(t, int32(-2), b.Get(testCount))
	assert.Equal(t, []byte{1, 2, 3, 4, 0xff, 0xfe}, b.Bytes()[:6])
}

func TestSetRejectsOverflow(t *testing.T) {
	b := New(testLayout)
	err := b.Set(testCount, 40000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, segyerr.ErrOutOfRange))
	assert.Equal(t, int32(0), b.Get(testCount))
}

func TestInvertByteOrderInvolution(t *testing.T) {
	b := New(testWide)
	require.NoError(t, b.Set(testID, 123456789))
	require.NoError(t, b.Set(testCount, 300))
	require.NoError(t, b.Set(testExtra, -7))
	b.Bytes()[6] = 0xaa // not a field: must never move
	orig := append([]byte(nil), b.Bytes()...)

	b.InvertByteOrder()
	assert.Equal(t, binary.ByteOrder(binary.LittleEndian), b.Order())
	assert.NotEqual(t, orig, b.Bytes())
	assert.Equal(t, byte(0xaa), b.Bytes()[6])
	// Values are order independent.
	assert.Equal(t, int32(123456789), b.Get(testID))
	assert.Equal(t, int32(300), b.Get(testCount))
	assert.Equal(t, orig, b.Encode())

	b.InvertByteOrder()
	assert.Equal(t, orig, b.Bytes())
}

func TestLoadAndEncode(t *testing.T) {
	raw := make([]byte, 16)
	binary.BigEndian.PutUint16(raw[8:], 5)
	b := New(testLayout)
	require.NoError(t, b.Load(raw))
	assert.Equal(t, int32(5), b.Get(testCode))

	require.Error(t, b.Load(raw[:10]))
}

func TestCloneIsIndependent(t *testing.T) {
	b := New(testLayout)
	require.NoError(t, b.Set(testCode, 1))
	c := b.Clone()
	require.NoError(t, c.Set(testCode, 2))

	assert.Equal(t, int32(1), b.Get(testCode))
	assert.Equal(t, int32(2), c.Get(testCode))
	assert.Same(t, b.Layout(), c.Layout())
}

func TestLayoutValidation(t *testing.T) {
	assert.Panics(t, func() { NewLayout("overlap", 8, I32("a", 0), I16("b", 2)) })
	assert.Panics(t, func() { NewLayout("overflow", 8, I32("a", 6)) })
	assert.NotPanics(t, func() { NewLayout("adjacent", 8, I32("a", 0), I32("b", 4)) })
}

func TestForeignFieldPanics(t *testing.T) {
	b := New(testLayout)
	assert.False(t, testLayout.Contains(testExtra))
	assert.True(t, testWide.Contains(testExtra))
	assert.Panics(t, func() { b.Get(testExtra) })
}

func TestPrint(t *testing.T) {
	b := New(testLayout)
	require.NoError(t, b.Set(testCode, 5))
	var out bytes.Buffer
	require.NoError(t, b.Print(&out))
	assert.Contains(t, out.String(), "identifier:")
	assert.Regexp(t, `code:\s+5`, out.String())
}
