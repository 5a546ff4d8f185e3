package bitstream

// Reader extracts variable-width fields from an array of little-endian
// packed 32-bit words. Bit 0 of a field is the least-significant unread
// bit of the current word; fields may span two consecutive words.
type Reader struct {
	words []uint32
	pos   uint64
}

func NewReader(words []uint32) *Reader {
	return &Reader{words: words}
}

func (r *Reader) BitPos() uint64 {
	return r.pos
}

func (r *Reader) SetBitPos(pos uint64) {
	r.pos = pos
}

// BitsLeft returns count of bits between the cursor and the end of the
// word array.
func (r *Reader) BitsLeft() uint64 {
	total := uint64(len(r.words)) * 32
	if r.pos >= total {
		return 0
	}
	return total - r.pos
}

// ReadBits extracts the next width (0..32) bits as an unsigned value
// and advances the cursor. width 0 reads nothing and returns 0.
func (r *Reader) ReadBits(width uint8) uint32 {
	if width == 0 {
		return 0
	}

	wordIndex := r.pos / 32
	bitIndex := uint(r.pos % 32)
	r.pos += uint64(width)

	mask := uint32((uint64(1) << width) - 1)
	if bitIndex+uint(width) <= 32 {
		return (r.words[wordIndex] >> bitIndex) & mask
	}

	// field straddles a word boundary, low part from the current word,
	// high part from the low bits of the next one
	low := r.words[wordIndex] >> bitIndex
	lowWidth := 32 - bitIndex
	high := r.words[wordIndex+1] & uint32((uint64(1)<<(uint(width)-lowWidth))-1)
	return low | high<<lowWidth
}

// ReadSigned extracts the next width bits and sign-extends them as a
// two's-complement value.
func (r *Reader) ReadSigned(width uint8) int32 {
	return SignExtend(r.ReadBits(width), width)
}

// SignExtend treats the low width bits of raw as a two's-complement
// value. width 0 yields 0.
func SignExtend(raw uint32, width uint8) int32 {
	if width == 0 {
		return 0
	}
	signBit := uint32(1) << (width - 1)
	if raw&signBit != 0 {
		return int32(raw | ^uint32(0)<<(width-1)<<1)
	}
	return int32(raw)
}
