package m17

// Encoder is a rate-1/2, constraint-length K=5 convolutional encoder with
// generator polynomials G1=0x19, G2=0x17, tailored to M17's framing.
// Grounded on M17ConvolutionalEncoder.hpp.
type Encoder struct {
	memory uint8 // 5-bit shift register
}

// NewEncoder returns an Encoder with a cleared shift register.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Reset clears the encoder's shift register memory.
func (e *Encoder) Reset() {
	e.memory = 0
}

// EncodeByte convolutionally encodes one byte, returning the resulting
// 16-bit big-endian output word (two output bits per input bit, MSB-first).
func (e *Encoder) EncodeByte(value byte) uint16 {
	return e.convolveBits(value, 8)
}

// convolveBits shifts the top nbits of value (MSB-first) through the
// encoder, returning the 2*nbits output bits packed MSB-first.
func (e *Encoder) convolveBits(value byte, nbits int) uint16 {
	var result uint16

	for i := 0; i < nbits; i++ {
		e.memory = (e.memory << 1) | ((value & 0x80) >> 7)
		e.memory &= 0x1F

		result = (result << 1) | uint16(popcount8(e.memory&0x19)&0x01)
		result = (result << 1) | uint16(popcount8(e.memory&0x17)&0x01)

		value <<= 1
	}

	return result
}

// Encode convolutionally encodes a block of data, writing two bytes of
// output per input byte into a newly-allocated slice.
func (e *Encoder) Encode(data []byte) []byte {
	out := make([]byte, 0, len(data)*2)
	for _, b := range data {
		word := e.EncodeByte(b)
		out = append(out, byte(word>>8), byte(word))
	}
	return out
}

// Flush shifts four trailing zero bits through the encoder's 5-bit shift
// register and returns the resulting 8-bit output word (one output byte),
// used to drive the trellis back towards state zero at the end of a block.
func (e *Encoder) Flush() byte {
	return byte(e.convolveBits(0x00, 4))
}
