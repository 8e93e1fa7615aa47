package mapped

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmap maps size bytes of fp at off, extending the file when the range
// lies beyond its end.
func mmap(fp *os.File, off int64, size int) ([]byte, error) {
	st, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() < off+int64(size) {
		if err := unix.Ftruncate(int(fp.Fd()), off+int64(size)); err != nil {
			return nil, err
		}
	}
	return unix.Mmap(int(fp.Fd()), off, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
}

func msync(buf []byte) error {
	return unix.Msync(buf, unix.MS_SYNC)
}

func munmap(buf []byte) error {
	return unix.Munmap(buf)
}
