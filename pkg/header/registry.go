package header

import (
	"fmt"
	"sort"
	"sync"

	"github.com/eunmann/segyio/pkg/segyerr"
)

// Prototype is a header value that can produce independent copies of itself.
type Prototype[T any] interface {
	Clone() T
}

// Registry maps revision tags to prototype headers. Create hands out clones,
// so the stored prototypes are never mutated.
//
// A Registry is safe for concurrent use.
type Registry[T Prototype[T]] struct {
	kind   string
	mu     sync.RWMutex
	protos map[string]T
}

// NewRegistry returns an empty registry. kind names the header shape in
// error messages.
func NewRegistry[T Prototype[T]](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, protos: make(map[string]T)}
}

// Register stores proto under tag. It returns false, leaving the existing
// entry in place, if tag is already registered.
func (r *Registry[T]) Register(tag string, proto T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.protos[tag]; ok {
		return false
	}
	r.protos[tag] = proto
	return true
}

// Create returns a fresh clone of the prototype registered under tag.
func (r *Registry[T]) Create(tag string) (T, error) {
	r.mu.RLock()
	proto, ok := r.protos[tag]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: no %s for tag %q", segyerr.ErrUnregisteredRevision, r.kind, tag)
	}
	return proto.Clone(), nil
}

// Unregister removes tag and reports whether it was present.
func (r *Registry[T]) Unregister(tag string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.protos[tag]
	delete(r.protos, tag)
	return ok
}

// Tags returns the registered tags in sorted order.
func (r *Registry[T]) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.protos))
	for t := range r.protos {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Headers pairs the binary and trace header registries. One value is built
// at startup and passed to whatever opens files.
type Headers struct {
	Binary *Registry[BinaryFileHeader]
	Trace  *Registry[TraceHeader]
}

// NewHeaders returns empty registries.
func NewHeaders() *Headers {
	return &Headers{
		Binary: NewRegistry[BinaryFileHeader]("binary file header"),
		Trace:  NewRegistry[TraceHeader]("trace header"),
	}
}

// RegisterRevisions adds Rev0 and Rev1 to h. Registration is idempotent and
// the order in which revisions are added does not matter.
func RegisterRevisions(h *Headers) {
	h.Binary.Register(Rev0.Tag(), NewBinaryHeaderRev0())
	h.Trace.Register(Rev0.Tag(), NewTraceHeaderRev0())
	h.Binary.Register(Rev1.Tag(), NewBinaryHeaderRev1())
	h.Trace.Register(Rev1.Tag(), NewTraceHeaderRev1())
}

// Pair creates a matching binary and trace header for tag.
func (h *Headers) Pair(tag string) (BinaryFileHeader, TraceHeader, error) {
	bh, err := h.Binary.Create(tag)
	if err != nil {
		return nil, nil, err
	}
	th, err := h.Trace.Create(tag)
	if err != nil {
		return nil, nil, err
	}
	return bh, th, nil
}

var (
	defaultOnce    sync.Once
	defaultHeaders *Headers
)

// Default returns the process registry holding every built-in revision. It
// is initialized on first use.
func Default() *Headers {
	defaultOnce.Do(func() {
		defaultHeaders = NewHeaders()
		RegisterRevisions(defaultHeaders)
	})
	return defaultHeaders
}
