package base

import (
	"os"
	"sync/atomic"

	"github.com/nnsgmsone/damrey/logger"
)

// Base carries the bookkeeping shared by file backed stores: id
// allocation, bounds checks, emptiness and the closed state. Backends
// embed it and add the actual I/O.
type Base struct {
	cnt     atomic.Int64 // block count
	written atomic.Bool
	closed  atomic.Bool
	size    int // block size
	label   string
	fp      *os.File
	log     logger.Log
}
