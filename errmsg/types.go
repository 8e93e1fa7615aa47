package errmsg

import "errors"

var (
	Closed        = errors.New("store closed")
	MapFailed     = errors.New("map failed")
	OpenFailed    = errors.New("open failed")
	ReadFailed    = errors.New("read failed")
	WriteFailed   = errors.New("write failed")
	OutOfBounds   = errors.New("block id out of bounds")
	UnknownMode   = errors.New("unknown store mode")
	SizeMismatch  = errors.New("block size mismatch")
	BadFileLength = errors.New("file length is not a multiple of the block size")
)
