package bytecounter

import "io"

// ByteCounter is an io.Writer that counts bytes written to the underlying writer.
type ByteCounter struct {
	N int64
	w io.Writer
}

func New(w io.Writer) *ByteCounter {
	return &ByteCounter{w: w}
}

// Write writes to the underlying io.Writer and adds the accepted bytes to N, even on a short write.
func (b *ByteCounter) Write(data []byte) (int, error) {
	n, err := b.w.Write(data)
	b.N += int64(n)
	return n, err
}
