package bytearray

import (
	"encoding/binary"

	"github.com/infinivision/blockaccess/base"
	"github.com/infinivision/blockaccess/block"
	"github.com/infinivision/blockaccess/constant"
	"github.com/infinivision/blockaccess/errmsg"
	"github.com/nnsgmsone/damrey/logger"
)

var _ block.Access = (*bytearray)(nil)

func New(label string, log logger.Log) *bytearray {
	return &bytearray{Base: base.New(label, 0, log)}
}

// Allocate reserves a record of size bytes at the append offset. Any
// size, including zero, is accepted.
func (a *bytearray) Allocate(size int) (*block.Block, error) {
	if err := a.CheckOpen(); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, errmsg.Wrap(errmsg.SizeMismatch, nil, "%s: allocate %d bytes", a.Label(), size)
	}
	a.Lock()
	defer a.Unlock()
	id := a.AllocID()
	off := len(a.buf)
	a.grow(off + constant.SizeOfInt + size)
	a.buf = a.buf[:off+constant.SizeOfInt+size]
	binary.LittleEndian.PutUint32(a.buf[off:], uint32(size))
	clear(a.buf[off+constant.SizeOfInt:])
	a.offs = append(a.offs, off)
	a.caps = append(a.caps, size)
	return block.New(id, make([]byte, size)), nil
}

func (a *bytearray) Read(id int64) (*block.Block, error) {
	if err := a.Check(id); err != nil {
		return nil, err
	}
	a.RLock()
	defer a.RUnlock()
	if a.offs == nil {
		return nil, errmsg.Wrap(errmsg.Closed, nil, "%s", a.Label())
	}
	off := a.offs[id]
	n := int(binary.LittleEndian.Uint32(a.buf[off:]))
	start := off + constant.SizeOfInt
	return block.New(id, append([]byte{}, a.buf[start:start+n]...)), nil
}

// Write replaces the record of the block. The payload may be shorter
// than the size reserved at allocation, never longer.
func (a *bytearray) Write(b *block.Block) error {
	if err := a.Check(b.ID()); err != nil {
		return err
	}
	a.Lock()
	defer a.Unlock()
	if a.offs == nil {
		return errmsg.Wrap(errmsg.Closed, nil, "%s", a.Label())
	}
	id := b.ID()
	if b.Size() > a.caps[id] {
		return errmsg.Wrap(errmsg.SizeMismatch, nil, "%s: block %d has %d bytes, reserved %d", a.Label(), id, b.Size(), a.caps[id])
	}
	off := a.offs[id]
	start := off + constant.SizeOfInt
	binary.LittleEndian.PutUint32(a.buf[off:], uint32(b.Size()))
	n := copy(a.buf[start:], b.Buffer())
	clear(a.buf[start+n : start+a.caps[id]])
	a.Written()
	return nil
}

func (a *bytearray) Overwrite(b *block.Block) error {
	return a.Write(b)
}

func (a *bytearray) Sync() error {
	return a.CheckOpen()
}

func (a *bytearray) Close() error {
	a.Lock()
	defer a.Unlock()
	a.buf, a.offs, a.caps = nil, nil, nil
	return a.Base.Close()
}

// Len returns the number of bytes in use, length prefixes included.
func (a *bytearray) Len() int {
	a.RLock()
	defer a.RUnlock()
	return len(a.buf)
}

// grow makes room for n bytes, at least doubling the capacity and
// rounding up to the growth increment.
func (a *bytearray) grow(n int) {
	if n <= cap(a.buf) {
		return
	}
	size := 2 * cap(a.buf)
	if size < n {
		size = n
	}
	if r := size % constant.ByteArrayStep; r != 0 {
		size += constant.ByteArrayStep - r
	}
	buf := make([]byte, len(a.buf), size)
	copy(buf, a.buf)
	a.buf = buf
}
