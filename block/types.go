package block

// Block is an addressable buffer of bytes. The id never changes; the
// bytes change only through Access.Write.
type Block struct {
	id  int64
	buf []byte
}

// Access is the contract every block storage backend satisfies.
//
// Ids handed out by Allocate come from a per-store monotonic sequence
// starting at zero. Whether the buffer of a returned block is a live view
// into storage or a private copy is documented by each backend.
type Access interface {
	// Allocate returns a zero-filled block with a fresh id. The size must
	// equal the store's block size unless the backend supports
	// variable-length blocks.
	Allocate(int) (*Block, error)

	// Read returns the persisted content of the block with the given id.
	Read(int64) (*Block, error)

	// Write persists the block so that a subsequent Read observes it.
	Write(*Block) error

	// Overwrite persists the block, always copying its bytes into storage.
	Overwrite(*Block) error

	// IsEmpty reports whether nothing has ever been written.
	IsEmpty() bool

	// Valid reports whether the id is inside the allocated range.
	Valid(int64) bool

	// AllocBoundary returns the number of allocated ids.
	AllocBoundary() int64

	// Sync forces outstanding writes to stable storage.
	Sync() error

	// Close syncs and releases the store. Any later operation fails.
	Close() error

	Label() string
}
