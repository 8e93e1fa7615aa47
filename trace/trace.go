package trace

import (
	"github.com/cespare/xxhash"
	"github.com/infinivision/blockaccess/block"
	"github.com/nnsgmsone/damrey/logger"
)

var _ block.Access = (*tracer)(nil)

func New(a block.Access, log logger.Log) *tracer {
	return &tracer{a, log}
}

func (t *tracer) Allocate(size int) (*block.Block, error) {
	b, err := t.a.Allocate(size)
	if err != nil {
		t.log.Errorf("%s: allocate(%d): %v\n", t.a.Label(), size, err)
		return nil, err
	}
	t.log.Debugf("%s: allocate(%d) -> %d\n", t.a.Label(), size, b.ID())
	return b, nil
}

func (t *tracer) Read(id int64) (*block.Block, error) {
	b, err := t.a.Read(id)
	if err != nil {
		t.log.Errorf("%s: read(%d): %v\n", t.a.Label(), id, err)
		return nil, err
	}
	t.log.Debugf("%s: read(%d) size %d sum %016x\n", t.a.Label(), id, b.Size(), xxhash.Sum64(b.Buffer()))
	return b, nil
}

func (t *tracer) Write(b *block.Block) error {
	return t.write("write", b, t.a.Write)
}

func (t *tracer) Overwrite(b *block.Block) error {
	return t.write("overwrite", b, t.a.Overwrite)
}

func (t *tracer) write(op string, b *block.Block, fn func(*block.Block) error) error {
	if err := fn(b); err != nil {
		t.log.Errorf("%s: %s(%d): %v\n", t.a.Label(), op, b.ID(), err)
		return err
	}
	t.log.Debugf("%s: %s(%d) size %d sum %016x\n", t.a.Label(), op, b.ID(), b.Size(), xxhash.Sum64(b.Buffer()))
	return nil
}

func (t *tracer) IsEmpty() bool {
	return t.a.IsEmpty()
}

func (t *tracer) Valid(id int64) bool {
	return t.a.Valid(id)
}

func (t *tracer) AllocBoundary() int64 {
	return t.a.AllocBoundary()
}

func (t *tracer) Sync() error {
	if err := t.a.Sync(); err != nil {
		t.log.Errorf("%s: sync: %v\n", t.a.Label(), err)
		return err
	}
	t.log.Debugf("%s: sync\n", t.a.Label())
	return nil
}

func (t *tracer) Close() error {
	if err := t.a.Close(); err != nil {
		t.log.Errorf("%s: close: %v\n", t.a.Label(), err)
		return err
	}
	t.log.Debugf("%s: close\n", t.a.Label())
	return nil
}

func (t *tracer) Label() string {
	return t.a.Label()
}
