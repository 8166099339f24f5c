package calc

// Capacity is the maximum number of characters stored for one line.
const Capacity = 32

// LineBuffer accumulates the characters of one line in fixed storage.
// The zero value is an empty buffer ready for use.
type LineBuffer struct {
	data [Capacity]rune
	n    int
}

// Push appends a character. ErrBufferFull is returned if there's no space
// left, and the buffer is left unchanged.
func (b *LineBuffer) Push(r rune) error {
	if b.n >= Capacity {
		return ErrBufferFull
	}
	b.data[b.n] = r
	b.n++
	return nil
}

// Len returns the number of stored characters.
func (b *LineBuffer) Len() int {
	return b.n
}

// Full indicates no more characters can be accepted.
func (b *LineBuffer) Full() bool {
	return b.n >= Capacity
}

// Runes returns the stored characters. The slice aliases the buffer storage
// and is only valid until the next Push or Clear.
func (b *LineBuffer) Runes() []rune {
	return b.data[:b.n]
}

// String returns the stored characters as a string.
func (b *LineBuffer) String() string {
	return string(b.data[:b.n])
}

// Clear empties the buffer, keeping the storage.
func (b *LineBuffer) Clear() {
	b.n = 0
}
