package mem

import (
	"sync"

	"github.com/infinivision/blockaccess/base"
)

// mem keeps blocks in an ordered list indexed by id.
//
// In safe mode Read hands out a copy and Write stores a copy, so a caller
// that keeps mutating a block after the call cannot change what the store
// holds, as with real disk I/O. With safe mode off the store and its
// callers share buffers.
type mem struct {
	*base.Base
	sync.RWMutex
	safe bool
	blks [][]byte
}
