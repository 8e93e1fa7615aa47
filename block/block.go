package block

func New(id int64, buf []byte) *Block {
	return &Block{id, buf}
}

func (b *Block) ID() int64 {
	return b.id
}

func (b *Block) Buffer() []byte {
	return b.buf
}

func (b *Block) Size() int {
	return len(b.buf)
}

// Replicate returns a block with the same id and a private copy of the bytes.
func (b *Block) Replicate() *Block {
	return &Block{b.id, append([]byte{}, b.buf...)}
}
