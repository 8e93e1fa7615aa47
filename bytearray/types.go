package bytearray

import (
	"sync"

	"github.com/infinivision/blockaccess/base"
)

// bytearray keeps variable-size records in one growable buffer, each
// record laid out as [len:4][payload]. It does not enforce a fixed block
// size. Blocks handed out are copies.
type bytearray struct {
	*base.Base
	sync.RWMutex
	buf  []byte // len(buf) is the append offset
	offs []int  // record offset by id
	caps []int  // reserved payload size by id
}
