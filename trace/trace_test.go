package trace

import (
	"bytes"
	"testing"

	"github.com/infinivision/blockaccess/block"
	"github.com/infinivision/blockaccess/errmsg"
	"github.com/infinivision/blockaccess/mem"
	"github.com/nnsgmsone/damrey/logger"
	"github.com/stretchr/testify/require"
)

const blockSize = 32

func newTracer(t *testing.T) (block.Access, *bytes.Buffer) {
	var out bytes.Buffer
	log := logger.New(&out, "test")
	log.SetLevel(logger.ERROR)
	m, err := mem.New("traced", blockSize, true, log)
	require.NoError(t, err)
	return New(m, log), &out
}

func TestForwards(t *testing.T) {
	requireT := require.New(t)

	a, out := newTracer(t)
	requireT.True(a.IsEmpty())
	requireT.Equal("traced", a.Label())

	b, err := a.Allocate(blockSize)
	requireT.NoError(err)
	copy(b.Buffer(), bytes.Repeat([]byte{0x42}, blockSize))
	requireT.NoError(a.Write(b))
	requireT.NoError(a.Overwrite(b))
	requireT.False(a.IsEmpty())
	requireT.True(a.Valid(0))
	requireT.EqualValues(1, a.AllocBoundary())

	r, err := a.Read(0)
	requireT.NoError(err)
	requireT.Equal(b.Buffer(), r.Buffer())
	requireT.NoError(a.Sync())
	requireT.NoError(a.Close())

	log := out.String()
	requireT.Contains(log, "traced: allocate(32) -> 0")
	requireT.Contains(log, "traced: write(0) size 32")
	requireT.Contains(log, "traced: overwrite(0) size 32")
	requireT.Contains(log, "traced: read(0) size 32")
	requireT.Contains(log, "traced: sync")
	requireT.Contains(log, "traced: close")
}

func TestLogsFailures(t *testing.T) {
	requireT := require.New(t)

	a, out := newTracer(t)
	defer a.Close()

	_, err := a.Read(5)
	requireT.ErrorIs(err, errmsg.OutOfBounds)
	_, err = a.Allocate(blockSize + 1)
	requireT.ErrorIs(err, errmsg.SizeMismatch)

	log := out.String()
	requireT.Contains(log, "ERROR: ")
	requireT.Contains(log, "traced: read(5)")
	requireT.Contains(log, "traced: allocate(33)")
}

func TestSameContentSameSum(t *testing.T) {
	requireT := require.New(t)

	a, out := newTracer(t)
	defer a.Close()

	for i := 0; i < 2; i++ {
		b, err := a.Allocate(blockSize)
		requireT.NoError(err)
		requireT.NoError(a.Write(b))
	}
	lines := bytes.Split(out.Bytes(), []byte("\n"))
	var sums [][]byte
	for _, l := range lines {
		if i := bytes.Index(l, []byte("sum ")); i >= 0 {
			sums = append(sums, l[i:])
		}
	}
	requireT.Len(sums, 2)
	requireT.Equal(sums[0], sums[1])
}
