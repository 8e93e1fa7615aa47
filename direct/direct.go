package direct

import (
	"github.com/infinivision/blockaccess/base"
	"github.com/infinivision/blockaccess/block"
	"github.com/infinivision/blockaccess/errmsg"
	"github.com/nnsgmsone/damrey/logger"
)

var _ block.Access = (*direct)(nil)

func New(path string, blockSize int, log logger.Log) (*direct, error) {
	b, err := base.Open(path, blockSize, log)
	if err != nil {
		return nil, err
	}
	return &direct{b}, nil
}

// Allocate returns a zeroed block with a new id. The block is not
// persisted until it is written.
func (d *direct) Allocate(size int) (*block.Block, error) {
	if err := d.CheckSize(size); err != nil {
		return nil, err
	}
	return block.New(d.AllocID(), make([]byte, size)), nil
}

func (d *direct) Read(id int64) (*block.Block, error) {
	if err := d.Check(id); err != nil {
		return nil, err
	}
	size := d.BlockSize()
	buf := make([]byte, size)
	n, err := d.File().ReadAt(buf, id*int64(size))
	if n != size {
		return nil, errmsg.Wrap(errmsg.ReadFailed, err, "%s: block %d: read %d of %d bytes", d.Label(), id, n, size)
	}
	return block.New(id, buf), nil
}

func (d *direct) Write(b *block.Block) error {
	if err := d.CheckBlock(b); err != nil {
		return err
	}
	size := d.BlockSize()
	n, err := d.File().WriteAt(b.Buffer(), b.ID()*int64(size))
	switch {
	case err != nil:
		return errmsg.Wrap(errmsg.WriteFailed, err, "%s: block %d", d.Label(), b.ID())
	case n != size:
		return errmsg.Wrap(errmsg.WriteFailed, nil, "%s: block %d: wrote %d of %d bytes", d.Label(), b.ID(), n, size)
	}
	d.Written()
	return nil
}

func (d *direct) Overwrite(b *block.Block) error {
	return d.Write(b)
}

func (d *direct) Sync() error {
	return d.Force()
}

func (d *direct) Close() error {
	if d.IsClosed() {
		return nil
	}
	if err := d.Force(); err != nil {
		d.Base.Close()
		return err
	}
	return d.Base.Close()
}
