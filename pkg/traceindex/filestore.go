package traceindex

import (
	"fmt"
	"io"
	"os"

	"github.com/eunmann/segyio/pkg/segyerr"
)

// flushThreshold bounds the pending write buffer of a FileStore.
const flushThreshold = 4096 * ItemSize

// FileStore keeps items in a sidecar file of fixed-size records, so an index
// can outlive the process. Pushed items are buffered and written in batches;
// Load reads through one ReadAt per lookup.
type FileStore struct {
	path    string
	f       *os.File
	flushed int // items on disk
	pending []byte
}

// OpenFileStore opens or creates the sidecar at path, keeping any whole
// records already present. A trailing partial record is discarded.
func OpenFileStore(path string) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("open sidecar index: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat sidecar index: %w", err)
	}
	s := &FileStore{path: path, f: f, flushed: int(info.Size() / ItemSize)}
	if info.Size()%ItemSize != 0 {
		if err := f.Truncate(int64(s.flushed) * ItemSize); err != nil {
			f.Close()
			return nil, fmt.Errorf("trim sidecar index: %w", err)
		}
	}
	return s, nil
}

// CreateFileStore creates an empty sidecar at path, truncating any existing
// file.
func CreateFileStore(path string) (*FileStore, error) {
	s, err := OpenFileStore(path)
	if err != nil {
		return nil, err
	}
	if err := s.Clear(); err != nil {
		s.f.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the sidecar location.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) PushBack(it Item) error {
	var rec [ItemSize]byte
	it.Encode(rec[:])
	s.pending = append(s.pending, rec[:]...)
	if len(s.pending) >= flushThreshold {
		return s.flush()
	}
	return nil
}

func (s *FileStore) flush() error {
	if len(s.pending) == 0 {
		return nil
	}
	if _, err := s.f.WriteAt(s.pending, int64(s.flushed)*ItemSize); err != nil {
		return fmt.Errorf("write sidecar index: %w", err)
	}
	s.flushed += len(s.pending) / ItemSize
	s.pending = s.pending[:0]
	return nil
}

func (s *FileStore) Size() int { return s.flushed + len(s.pending)/ItemSize }

func (s *FileStore) Load(n int) (Item, error) {
	if err := segyerr.CheckIndex("index item", n, s.Size()); err != nil {
		return Item{}, err
	}
	if n >= s.flushed {
		off := (n - s.flushed) * ItemSize
		return DecodeItem(s.pending[off : off+ItemSize]), nil
	}
	var rec [ItemSize]byte
	if _, err := s.f.ReadAt(rec[:], int64(n)*ItemSize); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return Item{}, fmt.Errorf("read sidecar index item %d: %w", n, err)
	}
	return DecodeItem(rec[:]), nil
}

func (s *FileStore) Reset(n int) error {
	size := s.Size()
	if n < 0 || n > size {
		return segyerr.CheckIndex("index reset point", n, size+1)
	}
	if n >= s.flushed {
		s.pending = s.pending[:(n-s.flushed)*ItemSize]
		return nil
	}
	s.pending = s.pending[:0]
	if err := s.f.Truncate(int64(n) * ItemSize); err != nil {
		return fmt.Errorf("truncate sidecar index: %w", err)
	}
	s.flushed = n
	return nil
}

func (s *FileStore) Clear() error { return s.Reset(0) }

func (s *FileStore) Sync() error {
	if err := s.flush(); err != nil {
		return err
	}
	return s.f.Sync()
}

// Close flushes pending items and closes the sidecar.
func (s *FileStore) Close() error {
	err := s.flush()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
