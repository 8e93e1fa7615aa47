package mapped

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/infinivision/blockaccess/base"
	"github.com/infinivision/blockaccess/block"
	"github.com/infinivision/blockaccess/constant"
	"github.com/infinivision/blockaccess/errmsg"
	"github.com/nnsgmsone/damrey/logger"
)

var _ block.Access = (*mapped)(nil)

func New(path string, blockSize, segSize, factor int, log logger.Log) (*mapped, error) {
	if blockSize <= 0 || segSize <= 0 || segSize%blockSize != 0 || segSize%os.Getpagesize() != 0 {
		return nil, errmsg.Wrap(errmsg.SizeMismatch, nil, "%s: segment size %d, block size %d", path, segSize, blockSize)
	}
	if factor < 2 {
		factor = constant.GrowthFactor
	}
	b, err := base.Open(path, blockSize, log)
	if err != nil {
		return nil, err
	}
	return &mapped{
		Base:   b,
		seg:    segSize,
		factor: factor,
		bps:    int64(segSize / blockSize),
		segs:   make([][]byte, constant.InitSegments),
		dirty:  make([]uint32, constant.InitSegments),
	}, nil
}

// Allocate returns a zeroed live view for a new id.
func (m *mapped) Allocate(size int) (*block.Block, error) {
	if err := m.CheckSize(size); err != nil {
		return nil, err
	}
	id := m.AllocID()
	buf, err := m.getByteBuffer(id)
	if err != nil {
		return nil, err
	}
	clear(buf)
	return block.New(id, buf), nil
}

// Read returns a live view of the block.
func (m *mapped) Read(id int64) (*block.Block, error) {
	if err := m.Check(id); err != nil {
		return nil, err
	}
	buf, err := m.getByteBuffer(id)
	if err != nil {
		return nil, err
	}
	return block.New(id, buf), nil
}

// Write marks the owning segment dirty. A block obtained from this store
// already aliases the mapping and is not copied; any other buffer is
// copied in.
func (m *mapped) Write(b *block.Block) error {
	return m.write(b, false)
}

func (m *mapped) Overwrite(b *block.Block) error {
	return m.write(b, true)
}

func (m *mapped) write(b *block.Block, force bool) error {
	if err := m.CheckBlock(b); err != nil {
		return err
	}
	buf, err := m.getByteBuffer(b.ID())
	if err != nil {
		return err
	}
	if force || !aliased(buf, b.Buffer()) {
		copy(buf, b.Buffer())
	}
	m.markDirty(m.segment(b.ID()))
	m.Written()
	return nil
}

func (m *mapped) Sync() error {
	if err := m.CheckOpen(); err != nil {
		return err
	}
	m.Lock()
	defer m.Unlock()
	if err := m.flush(); err != nil {
		return err
	}
	if err := m.File().Sync(); err != nil {
		return errmsg.Wrap(errmsg.WriteFailed, err, "%s: sync", m.Label())
	}
	return nil
}

// Close flushes dirty segments, unmaps every segment and trims the file
// to the allocated blocks.
func (m *mapped) Close() error {
	if m.IsClosed() {
		return nil
	}
	m.Lock()
	defer m.Unlock()
	if m.segs == nil {
		return nil
	}
	err := m.flush()
	for i, seg := range m.segs {
		if seg == nil {
			continue
		}
		if e := munmap(seg); e != nil && err == nil {
			err = errmsg.Wrap(errmsg.MapFailed, e, "%s: unmap segment %d", m.Label(), i)
		}
	}
	m.segs, m.dirty = nil, nil
	fp := m.File()
	if e := fp.Truncate(m.NumBlocks() * int64(m.BlockSize())); e != nil && err == nil {
		err = errmsg.Wrap(errmsg.WriteFailed, e, "%s: truncate", m.Label())
	}
	if e := fp.Sync(); e != nil && err == nil {
		err = errmsg.Wrap(errmsg.WriteFailed, e, "%s: sync", m.Label())
	}
	if e := m.Base.Close(); e != nil && err == nil {
		err = e
	}
	return err
}

func (m *mapped) segment(id int64) int {
	return int(id / m.bps)
}

func (m *mapped) byteOffset(id int64) int {
	return int(id%m.bps) * m.BlockSize()
}

func (m *mapped) fileOffset(seg int) int64 {
	return int64(seg) * int64(m.seg)
}

// getByteBuffer returns the view of block id inside its segment and
// extends the block count when id lies past it.
func (m *mapped) getByteBuffer(id int64) ([]byte, error) {
	seg, err := m.allocSegment(m.segment(id))
	if err != nil {
		return nil, err
	}
	m.Extend(id)
	off := m.byteOffset(id)
	end := off + m.BlockSize()
	return seg[off:end:end], nil
}

func (m *mapped) allocSegment(n int) ([]byte, error) {
	if n < 0 {
		panic(fmt.Sprintf("%s: negative segment %d", m.Label(), n))
	}
	m.RLock()
	if n < len(m.segs) && m.segs[n] != nil {
		seg := m.segs[n]
		m.RUnlock()
		return seg, nil
	}
	m.RUnlock()

	m.Lock()
	defer m.Unlock()
	if m.segs == nil {
		return nil, errmsg.Wrap(errmsg.Closed, nil, "%s", m.Label())
	}
	if n >= len(m.segs) {
		m.grow(n)
	}
	if m.segs[n] == nil {
		off := m.fileOffset(n)
		if off < 0 {
			panic(fmt.Sprintf("%s: negative offset %d for segment %d", m.Label(), off, n))
		}
		seg, err := mmap(m.File(), off, m.seg)
		if err != nil {
			return nil, errmsg.Wrap(errmsg.MapFailed, err, "%s: segment %d at %d", m.Label(), n, off)
		}
		m.segs[n] = seg
	}
	return m.segs[n], nil
}

// grow multiplies the directory size by the growth factor until it
// covers segment n. Must be called with the write lock held.
func (m *mapped) grow(n int) {
	size := len(m.segs)
	for size <= n {
		size *= m.factor
	}
	segs := make([][]byte, size)
	dirty := make([]uint32, size)
	copy(segs, m.segs)
	copy(dirty, m.dirty)
	m.segs, m.dirty = segs, dirty
}

func (m *mapped) markDirty(n int) {
	m.RLock()
	if n < len(m.dirty) {
		atomic.StoreUint32(&m.dirty[n], 1)
	}
	m.RUnlock()
}

// flush msyncs every dirty segment. Must be called with the write lock held.
func (m *mapped) flush() error {
	for i, seg := range m.segs {
		if seg == nil || atomic.LoadUint32(&m.dirty[i]) == 0 {
			continue
		}
		atomic.StoreUint32(&m.dirty[i], 0)
		if err := msync(seg); err != nil {
			atomic.StoreUint32(&m.dirty[i], 1)
			return errmsg.Wrap(errmsg.WriteFailed, err, "%s: flush segment %d", m.Label(), i)
		}
	}
	return nil
}

func aliased(a, b []byte) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
