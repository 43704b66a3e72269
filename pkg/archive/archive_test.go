package archive

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eunmann/segyio/internal/logctx"
	"github.com/eunmann/segyio/pkg/header"
	"github.com/eunmann/segyio/pkg/segy"
)

func quietCtx() context.Context {
	return logctx.WithLogger(context.Background(), zerolog.Nop())
}

func writeSegy(t *testing.T, dir string, traces int) string {
	t.Helper()
	path := filepath.Join(dir, "shot.sgy")
	err := segy.With(path, "Rev1", func(f *segy.File) error {
		if err := f.TextualHeader().SetLine(0, "C 1 ARCHIVE TEST"); err != nil {
			return err
		}
		if err := f.BinaryHeader().Set(header.Binary.FormatCode, int32(header.FormatIBMFloat32)); err != nil {
			return err
		}
		for i := 0; i < traces; i++ {
			tr, err := f.NewTrace(64)
			if err != nil {
				return err
			}
			s, err := segy.Samples[float32](tr)
			if err != nil {
				return err
			}
			for j := range s {
				s[j] = float32(i*j) * 0.5
			}
			if err := f.AppendTrace(tr); err != nil {
				return err
			}
		}
		return nil
	}, segy.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return path
}

func TestPackUnpackRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := writeSegy(t, dir, 5)
	original, err := os.ReadFile(src)
	require.NoError(t, err)

	for _, level := range []Level{LevelFastest, LevelDefault, LevelBetter} {
		archivePath := filepath.Join(dir, "shot.sgyz")
		hdr, err := Pack(quietCtx(), src, archivePath, PackOptions{Level: level})
		require.NoError(t, err)
		assert.Equal(t, uint64(len(original)), hdr.OriginalSize)
		assert.Equal(t, uint64(5), hdr.TraceCount)
		assert.True(t, hdr.Compressed())

		read, err := ReadHeader(archivePath)
		require.NoError(t, err)
		assert.Equal(t, hdr, read)

		restored := filepath.Join(dir, "restored", "shot.sgy")
		got, err := Unpack(quietCtx(), archivePath, restored)
		require.NoError(t, err)
		assert.Equal(t, hdr, got)

		data, err := os.ReadFile(restored)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(original, data), "level %d restores byte for byte", level)
	}
}

func TestPackRejectsInvalidSegy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "junk.sgy")
	require.NoError(t, os.WriteFile(src, []byte("not seismic"), 0644))

	dst := filepath.Join(dir, "junk.sgyz")
	_, err := Pack(quietCtx(), src, dst, PackOptions{})
	assert.True(t, errors.Is(err, segy.ErrTruncated))
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestReadHeaderRejectsOtherFiles(t *testing.T) {
	dir := t.TempDir()

	short := filepath.Join(dir, "short")
	require.NoError(t, os.WriteFile(short, []byte("SGYZ"), 0644))
	_, err := ReadHeader(short)
	assert.True(t, errors.Is(err, ErrNotArchive))

	wrongMagic := filepath.Join(dir, "magic")
	require.NoError(t, os.WriteFile(wrongMagic, make([]byte, HeaderSize), 0644))
	_, err = ReadHeader(wrongMagic)
	assert.True(t, errors.Is(err, ErrNotArchive))

	future := Header{Version: 9, Flags: flagCompressed | compressionTypeZstd<<1}.encode()
	futurePath := filepath.Join(dir, "future")
	require.NoError(t, os.WriteFile(futurePath, future, 0644))
	_, err = ReadHeader(futurePath)
	assert.True(t, errors.Is(err, ErrNotArchive))
}

func TestUnpackDetectsSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	src := writeSegy(t, dir, 2)
	archivePath := filepath.Join(dir, "shot.sgyz")
	_, err := Pack(quietCtx(), src, archivePath, PackOptions{})
	require.NoError(t, err)

	data, err := os.ReadFile(archivePath)
	require.NoError(t, err)
	hdr, err := decodeHeader(data)
	require.NoError(t, err)
	hdr.OriginalSize++
	copy(data, hdr.encode())
	require.NoError(t, os.WriteFile(archivePath, data, 0644))

	dst := filepath.Join(dir, "out.sgy")
	_, err = Unpack(quietCtx(), archivePath, dst)
	assert.True(t, errors.Is(err, ErrCorrupt))
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUnpackHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	src := writeSegy(t, dir, 1)
	archivePath := filepath.Join(dir, "shot.sgyz")
	_, err := Pack(quietCtx(), src, archivePath, PackOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(quietCtx())
	cancel()
	_, err = Unpack(ctx, archivePath, filepath.Join(dir, "out.sgy"))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"", LevelDefault, true},
		{"fastest", LevelFastest, true},
		{"better", LevelBetter, true},
		{"ultra", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
