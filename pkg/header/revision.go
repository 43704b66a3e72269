package header

import (
	"fmt"

	"github.com/eunmann/segyio/pkg/segyerr"
)

// Revision is the closed set of SEG-Y format revisions understood here.
type Revision uint8

const (
	// Rev0 is the 1975 standard.
	Rev0 Revision = iota
	// Rev1 is the 2002 revision: Rev0 plus extension fields.
	Rev1
)

// Tag returns the registry tag of the revision.
func (r Revision) Tag() string {
	switch r {
	case Rev0:
		return "Rev0"
	case Rev1:
		return "Rev1"
	}
	return fmt.Sprintf("Rev(%d)", uint8(r))
}

func (r Revision) String() string { return r.Tag() }

// ParseRevision maps a tag such as "Rev1" to its Revision.
func ParseRevision(tag string) (Revision, error) {
	switch tag {
	case "Rev0", "rev0", "0":
		return Rev0, nil
	case "Rev1", "rev1", "1":
		return Rev1, nil
	}
	return 0, fmt.Errorf("%w: %q", segyerr.ErrUnregisteredRevision, tag)
}
