package mapped

import (
	"sync"

	"github.com/infinivision/blockaccess/base"
)

// mapped divides the file into fixed-size segments and maps each segment
// read-write on first touch. Blocks returned by Allocate and Read are live
// views into the mapping: mutating one and calling Sync persists the
// change. Views stay valid until Close, after which touching them faults.
//
// Mapping a segment extends the file to the end of that segment and only
// Close trims it back to the allocated blocks. A file left behind without
// Close reopens with its count rounded up to a whole segment; the extra
// blocks read as zero. The file is not trimmed in Sync because truncating
// under a live mapping faults on the cut pages.
//
// Dirty marking is not coordinated between writers; a single writer with
// many readers is assumed.
type mapped struct {
	*base.Base
	sync.RWMutex // guards the segment directory

	seg    int   // segment size in bytes
	bps    int64 // blocks per segment
	factor int   // directory growth factor

	segs  [][]byte
	dirty []uint32
}
