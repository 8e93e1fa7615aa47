package constant

const (
	BlockSize = 8 * 1024 // 8k
)

const (
	SegmentSize  = 8 * 1024 * 1024 // 8MB
	GrowthFactor = 2
	InitSegments = 16
)

const (
	SizeOfInt     = 4    // length prefix of byte array records
	ByteArrayStep = 1024 // byte array growth increment
)

const (
	// MaxBlocks32 is the largest block count higher layers can address
	// with 32-bit block pointers.
	MaxBlocks32 = int64(1<<31 - 1)
)

const (
	ModeDirect = "direct"
	ModeMapped = "mapped"
	ModeMem    = "mem"
	ModeBytes  = "bytes"
)
