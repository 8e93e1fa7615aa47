package base

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/infinivision/blockaccess/block"
	"github.com/infinivision/blockaccess/errmsg"
	"github.com/nnsgmsone/damrey/logger"
	"github.com/stretchr/testify/require"
)

const blockSize = 4096

func newLog() logger.Log {
	return logger.New(io.Discard, "test")
}

func newFile(t *testing.T, size int64) string {
	path := filepath.Join(t.TempDir(), "blocks")
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0664))
	return path
}

func TestOpenEmpty(t *testing.T) {
	requireT := require.New(t)

	b, err := Open(filepath.Join(t.TempDir(), "blocks"), blockSize, newLog())
	requireT.NoError(err)
	defer b.Close()

	requireT.EqualValues(0, b.NumBlocks())
	requireT.True(b.IsEmpty())
	requireT.Equal(blockSize, b.BlockSize())

	b.Written()
	requireT.False(b.IsEmpty())
}

func TestOpenCountsBlocks(t *testing.T) {
	requireT := require.New(t)

	b, err := Open(newFile(t, blockSize*10), blockSize, newLog())
	requireT.NoError(err)
	defer b.Close()

	requireT.EqualValues(10, b.NumBlocks())
	requireT.EqualValues(10, b.AllocBoundary())
	requireT.False(b.IsEmpty())
}

func TestOpenWarnsPast32Bits(t *testing.T) {
	requireT := require.New(t)

	path := filepath.Join(t.TempDir(), "blocks")
	fp, err := os.Create(path)
	requireT.NoError(err)
	requireT.NoError(fp.Truncate(1<<31 + 1))
	requireT.NoError(fp.Close())

	var out bytes.Buffer
	log := logger.New(&out, "test")
	log.SetLevel(logger.WARN)

	b, err := Open(path, 1, log)
	requireT.NoError(err)
	defer b.Close()
	requireT.EqualValues(1<<31+1, b.NumBlocks())
	requireT.Contains(out.String(), "2147483649 blocks exceed the 32-bit block id range")
}

func TestOpenRejectsPartialBlock(t *testing.T) {
	requireT := require.New(t)

	_, err := Open(newFile(t, blockSize*10+1), blockSize, newLog())
	requireT.ErrorIs(err, errmsg.BadFileLength)
}

func TestOpenRejectsBadBlockSize(t *testing.T) {
	requireT := require.New(t)

	_, err := Open(filepath.Join(t.TempDir(), "blocks"), 0, newLog())
	requireT.ErrorIs(err, errmsg.SizeMismatch)
}

func TestAllocID(t *testing.T) {
	requireT := require.New(t)

	b := New("mem", blockSize, newLog())
	for i := 0; i < 5; i++ {
		requireT.EqualValues(i, b.AllocID())
	}
	requireT.EqualValues(5, b.NumBlocks())
}

func TestAllocIDConcurrent(t *testing.T) {
	requireT := require.New(t)

	const (
		workers   = 8
		perWorker = 1000
	)

	b := New("mem", blockSize, newLog())
	ids := make(chan int64, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				ids <- b.AllocID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]struct{}{}
	for id := range ids {
		_, ok := seen[id]
		requireT.False(ok, "id %d handed out twice", id)
		seen[id] = struct{}{}
	}
	requireT.Len(seen, workers*perWorker)
	requireT.EqualValues(workers*perWorker, b.NumBlocks())
}

func TestBounds(t *testing.T) {
	requireT := require.New(t)

	b := New("mem", blockSize, newLog())
	for i := 0; i < 3; i++ {
		b.AllocID()
	}

	requireT.True(b.Valid(0))
	requireT.True(b.Valid(2))
	requireT.False(b.Valid(3))
	requireT.False(b.Valid(5))
	requireT.False(b.Valid(-1))

	requireT.NoError(b.Check(2))
	requireT.ErrorIs(b.Check(5), errmsg.OutOfBounds)
	requireT.ErrorIs(b.Check(-1), errmsg.OutOfBounds)
}

func TestCheckBlock(t *testing.T) {
	requireT := require.New(t)

	b := New("mem", blockSize, newLog())
	id := b.AllocID()

	requireT.NoError(b.CheckBlock(block.New(id, make([]byte, blockSize))))
	requireT.ErrorIs(b.CheckBlock(block.New(id, make([]byte, blockSize-1))), errmsg.SizeMismatch)
	requireT.ErrorIs(b.CheckBlock(block.New(id+1, make([]byte, blockSize))), errmsg.OutOfBounds)

	requireT.NoError(b.CheckSize(blockSize))
	requireT.ErrorIs(b.CheckSize(blockSize*2), errmsg.SizeMismatch)
}

func TestExtend(t *testing.T) {
	requireT := require.New(t)

	b := New("mem", blockSize, newLog())
	b.Extend(9)
	requireT.EqualValues(10, b.NumBlocks())
	b.Extend(4)
	requireT.EqualValues(10, b.NumBlocks())
	requireT.EqualValues(10, b.AllocID())
}

func TestClosed(t *testing.T) {
	requireT := require.New(t)

	b, err := Open(filepath.Join(t.TempDir(), "blocks"), blockSize, newLog())
	requireT.NoError(err)
	b.AllocID()
	requireT.NoError(b.Force())
	requireT.NoError(b.Close())
	requireT.NoError(b.Close())

	requireT.True(b.IsClosed())
	requireT.ErrorIs(b.Check(0), errmsg.Closed)
	requireT.ErrorIs(b.CheckSize(blockSize), errmsg.Closed)
	requireT.ErrorIs(b.Force(), errmsg.Closed)
}
