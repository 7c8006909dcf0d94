package wand

// frontierInitialSize is the starting capacity of the flood-fill
// worklist. Must be a power of two.
const frontierInitialSize = 16

// frontier is the FIFO worklist of accepted-but-unexpanded pixel
// offsets, backed by a power-of-two ring buffer. head and tail are
// absolute counters; the buffer index is counter & mask, so growing the
// buffer copies the old contents into both halves to keep every masked
// index valid.
type frontier struct {
	buf  []int
	mask int
	head int
	tail int
}

func newFrontier() *frontier {
	return &frontier{
		buf:  make([]int, frontierInitialSize),
		mask: frontierInitialSize - 1,
	}
}

func (f *frontier) empty() bool { return f.head == f.tail }

func (f *frontier) len() int { return f.tail - f.head }

func (f *frontier) push(offset int) {
	if f.tail-f.head == len(f.buf) {
		grown := make([]int, 2*len(f.buf))
		copy(grown[:len(f.buf)], f.buf)
		copy(grown[len(f.buf):], f.buf)
		f.buf = grown
		f.mask = len(grown) - 1
	}
	f.buf[f.tail&f.mask] = offset
	f.tail++
}

func (f *frontier) pop() int {
	offset := f.buf[f.head&f.mask]
	f.head++
	return offset
}
