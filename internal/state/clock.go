package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// revision is shared by every page so revisions are ordered across a book.
var revision uint64

func nextRevision() uint64 {
	return atomic.AddUint64(&revision, 1)
}

func newPageID() string {
	return uuid.NewString()
}
