package mem

import (
	"github.com/infinivision/blockaccess/base"
	"github.com/infinivision/blockaccess/block"
	"github.com/infinivision/blockaccess/errmsg"
	"github.com/nnsgmsone/damrey/logger"
)

var _ block.Access = (*mem)(nil)

func New(label string, blockSize int, safe bool, log logger.Log) (*mem, error) {
	if blockSize <= 0 {
		return nil, errmsg.Wrap(errmsg.SizeMismatch, nil, "%s: block size %d", label, blockSize)
	}
	return &mem{Base: base.New(label, blockSize, log), safe: safe}, nil
}

func (m *mem) Allocate(size int) (*block.Block, error) {
	if err := m.CheckSize(size); err != nil {
		return nil, err
	}
	m.Lock()
	defer m.Unlock()
	id := m.AllocID()
	buf := make([]byte, size)
	m.blks = append(m.blks, buf)
	if m.safe {
		return block.New(id, make([]byte, size)), nil
	}
	return block.New(id, buf), nil
}

func (m *mem) Read(id int64) (*block.Block, error) {
	if err := m.Check(id); err != nil {
		return nil, err
	}
	m.RLock()
	defer m.RUnlock()
	if m.blks == nil {
		return nil, errmsg.Wrap(errmsg.Closed, nil, "%s", m.Label())
	}
	if m.safe {
		return block.New(id, append([]byte{}, m.blks[id]...)), nil
	}
	return block.New(id, m.blks[id]), nil
}

func (m *mem) Write(b *block.Block) error {
	return m.write(b, m.safe)
}

func (m *mem) Overwrite(b *block.Block) error {
	return m.write(b, true)
}

func (m *mem) write(b *block.Block, replicate bool) error {
	if err := m.CheckBlock(b); err != nil {
		return err
	}
	m.Lock()
	defer m.Unlock()
	if m.blks == nil {
		return errmsg.Wrap(errmsg.Closed, nil, "%s", m.Label())
	}
	if replicate {
		m.blks[b.ID()] = append([]byte{}, b.Buffer()...)
	} else {
		m.blks[b.ID()] = b.Buffer()
	}
	m.Written()
	return nil
}

func (m *mem) Sync() error {
	return m.CheckOpen()
}

func (m *mem) Close() error {
	m.Lock()
	defer m.Unlock()
	m.blks = nil
	return m.Base.Close()
}
