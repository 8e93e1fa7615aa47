package base

import (
	"os"

	"github.com/infinivision/blockaccess/block"
	"github.com/infinivision/blockaccess/constant"
	"github.com/infinivision/blockaccess/errmsg"
	"github.com/nnsgmsone/damrey/logger"
	"golang.org/x/sys/unix"
)

func Open(path string, size int, log logger.Log) (*Base, error) {
	if size <= 0 {
		return nil, errmsg.Wrap(errmsg.SizeMismatch, nil, "%s: block size %d", path, size)
	}
	fp, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0664)
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpenFailed, err, "%s", path)
	}
	st, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, errmsg.Wrap(errmsg.OpenFailed, err, "%s", path)
	}
	if st.Size()%int64(size) != 0 {
		fp.Close()
		return nil, errmsg.Wrap(errmsg.BadFileLength, nil, "%s: length %d, block size %d", path, st.Size(), size)
	}
	b := &Base{size: size, label: path, fp: fp, log: log}
	b.cnt.Store(st.Size() / int64(size))
	if n := b.cnt.Load(); n > constant.MaxBlocks32 {
		log.Warnf("%s: %d blocks exceed the 32-bit block id range\n", path, n)
	}
	b.written.Store(b.cnt.Load() > 0)
	return b, nil
}

// New returns bookkeeping without a backing file, for in-memory stores.
func New(label string, size int, log logger.Log) *Base {
	return &Base{size: size, label: label, log: log}
}

// AllocID takes the next id from the sequence.
func (b *Base) AllocID() int64 {
	return b.cnt.Add(1) - 1
}

// Extend raises the block count so that id is inside the allocated range.
func (b *Base) Extend(id int64) {
	for {
		curr := b.cnt.Load()
		if id < curr {
			return
		}
		if b.cnt.CompareAndSwap(curr, id+1) {
			return
		}
	}
}

func (b *Base) Valid(id int64) bool {
	return id >= 0 && id < b.cnt.Load()
}

// Check fails unless the store is open and id is allocated.
func (b *Base) Check(id int64) error {
	if b.closed.Load() {
		b.log.Warnf("%s: access to block %d after close\n", b.label, id)
		return errmsg.Wrap(errmsg.Closed, nil, "%s", b.label)
	}
	if !b.Valid(id) {
		return errmsg.Wrap(errmsg.OutOfBounds, nil, "%s: block %d, %d blocks", b.label, id, b.cnt.Load())
	}
	return nil
}

// CheckBlock is Check plus the block size constraint.
func (b *Base) CheckBlock(blk *block.Block) error {
	if err := b.Check(blk.ID()); err != nil {
		return err
	}
	if blk.Size() != b.size {
		return errmsg.Wrap(errmsg.SizeMismatch, nil, "%s: block %d has %d bytes, want %d", b.label, blk.ID(), blk.Size(), b.size)
	}
	return nil
}

// CheckSize validates the size passed to Allocate.
func (b *Base) CheckSize(size int) error {
	if b.closed.Load() {
		b.log.Warnf("%s: allocate after close\n", b.label)
		return errmsg.Wrap(errmsg.Closed, nil, "%s", b.label)
	}
	if size != b.size {
		return errmsg.Wrap(errmsg.SizeMismatch, nil, "%s: allocate %d bytes, block size %d", b.label, size, b.size)
	}
	return nil
}

// CheckOpen fails if the store has been closed.
func (b *Base) CheckOpen() error {
	if b.closed.Load() {
		b.log.Warnf("%s: operation after close\n", b.label)
		return errmsg.Wrap(errmsg.Closed, nil, "%s", b.label)
	}
	return nil
}

// Written records that a block has been persisted.
func (b *Base) Written() {
	b.written.Store(true)
}

func (b *Base) IsEmpty() bool {
	return !b.written.Load()
}

func (b *Base) IsClosed() bool {
	return b.closed.Load()
}

func (b *Base) NumBlocks() int64 {
	return b.cnt.Load()
}

func (b *Base) AllocBoundary() int64 {
	return b.cnt.Load()
}

func (b *Base) BlockSize() int {
	return b.size
}

func (b *Base) Label() string {
	return b.label
}

func (b *Base) File() *os.File {
	return b.fp
}

// Force flushes file content, not necessarily metadata, to stable storage.
func (b *Base) Force() error {
	if err := b.CheckOpen(); err != nil {
		return err
	}
	if b.fp == nil {
		return nil
	}
	if err := unix.Fdatasync(int(b.fp.Fd())); err != nil {
		return errmsg.Wrap(errmsg.WriteFailed, err, "%s: sync", b.label)
	}
	return nil
}

// Close releases the file handle. Closing twice is a no-op.
func (b *Base) Close() error {
	if !b.closed.CompareAndSwap(false, true) || b.fp == nil {
		return nil
	}
	if err := b.fp.Close(); err != nil {
		return errmsg.Wrap(errmsg.WriteFailed, err, "%s: close", b.label)
	}
	return nil
}
