package console

// Ring is a fixed-capacity circular byte buffer addressed by a head
// offset and a logical length, with 0 <= head < cap and
// 0 <= length <= cap at all times. All index arithmetic is modulo the
// capacity; no operation reads or writes outside the backing array.
type Ring struct {
	buf    []byte
	head   int
	length int
}

// NewRing creates a Ring. The capacity must be positive.
func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]byte, capacity)}
}

// Cap returns the capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Len returns the number of bytes currently buffered.
func (r *Ring) Len() int {
	return r.length
}

// Free returns the number of bytes that can still be written.
func (r *Ring) Free() int {
	return len(r.buf) - r.length
}

// Write appends as much of p as fits and returns the number of bytes
// accepted. Bytes beyond the free space are dropped.
func (r *Ring) Write(p []byte) int {
	n := len(p)
	if free := r.Free(); n > free {
		n = free
	}
	for i := 0; i < n; i++ {
		r.buf[(r.head+r.length)%len(r.buf)] = p[i]
		r.length++
	}
	return n
}

// Peek returns the longest contiguous run starting at the head that
// does not wrap past the end of the backing array. The run aliases the
// ring and stays valid until the bytes are discarded.
func (r *Ring) Peek() []byte {
	n := r.length
	if max := len(r.buf) - r.head; n > max {
		n = max
	}
	return r.buf[r.head : r.head+n]
}

// Discard removes up to n bytes from the front and returns the number
// actually removed.
func (r *Ring) Discard(n int) int {
	if n > r.length {
		n = r.length
	}
	if n <= 0 {
		return 0
	}
	r.head = (r.head + n) % len(r.buf)
	r.length -= n
	return n
}

// Reset empties the ring.
func (r *Ring) Reset() {
	r.head, r.length = 0, 0
}
