package m17

// Viterbi is a hard-decision Viterbi decoder for the M17 convolutional code
// (rate 1/2, constraint length K=5, G1=0x19, G2=0x17). Grounded on
// M17Viterbi.hpp.
type Viterbi struct {
	prevMetrics [numStates]uint16
	currMetrics [numStates]uint16
	history     []uint16 // one entry per decoded bit pair, bit i = state i's surviving path
}

const viterbiK = 5
const numStates = 1 << (viterbiK - 1) // 16

var costTable0 = [numStates / 2]uint8{0, 0, 0, 0, 2, 2, 2, 2}
var costTable1 = [numStates / 2]uint8{0, 2, 2, 0, 0, 2, 2, 0}

// NewViterbi returns a ready-to-use Viterbi decoder.
func NewViterbi() *Viterbi {
	return &Viterbi{}
}

func absDiff(a, b uint8) uint16 {
	if a > b {
		return uint16(a - b)
	}
	return uint16(b - a)
}

// decodeBit runs one trellis step for a pair of soft-ish symbol costs (each
// 0 or 2, or 1 for a punctured/erased symbol) and appends the surviving
// path bitmap to h.history.
func (h *Viterbi) decodeBit(s0, s1 uint8) {
	var hist uint16

	for i := 0; i < numStates/2; i++ {
		metric := absDiff(costTable0[i], s0) + absDiff(costTable1[i], s1)

		m0 := h.prevMetrics[i] + metric
		m1 := h.prevMetrics[i+numStates/2] + (4 - metric)

		m2 := h.prevMetrics[i] + (4 - metric)
		m3 := h.prevMetrics[i+numStates/2] + metric

		i0 := uint(2 * i)
		i1 := i0 + 1

		if m0 >= m1 {
			hist |= 1 << i0
			h.currMetrics[i0] = m1
		} else {
			h.currMetrics[i0] = m0
		}

		if m2 >= m3 {
			hist |= 1 << i1
			h.currMetrics[i1] = m3
		} else {
			h.currMetrics[i1] = m2
		}
	}

	h.history = append(h.history, hist)
	h.prevMetrics, h.currMetrics = h.currMetrics, h.prevMetrics
}

// chainback walks the survivor history backwards from state 0, filling out
// with the decoded bits, and returns the minimum final path metric.
func (h *Viterbi) chainback(out []byte) uint16 {
	var state uint8
	bitPos := len(out) * 8
	pos := len(h.history)

	for bitPos > 0 {
		bitPos--
		pos--
		bit := (h.history[pos]>>(state>>4))&1 != 0
		state >>= 1
		if bit {
			state |= 0x80
		}
		SetBit(out, bitPos, bit)
	}

	cost := h.prevMetrics[0]
	for _, m := range h.prevMetrics {
		if m < cost {
			cost = m
		}
	}
	return cost
}

// Decode decodes unpunctured, rate-1/2 convolutionally encoded data in into
// out (len(out) bytes of decoded data expected, i.e. len(in) == 2*len(out)
// plus any trailing flush bits already included in in). It returns the
// number of bit errors corrected.
//
// Grounded on M17Viterbi.hpp::decode.
func (h *Viterbi) Decode(in []byte, out []byte) uint16 {
	h.prevMetrics = [numStates]uint16{}
	h.currMetrics = [numStates]uint16{}
	h.history = h.history[:0]

	for i := 0; i < len(in)*8; i += 2 {
		var s0, s1 uint8
		if GetBit(in, i) {
			s0 = 2
		}
		if GetBit(in, i+1) {
			s1 = 2
		}
		h.decodeBit(s0, s1)
	}

	return h.chainback(out) / ((viterbiK - 1) >> 1)
}

// DecodePunctured decodes punctured convolutionally encoded data in,
// re-inserting erasure symbols (cost 1, neither 0 nor 2) at positions the
// cyclically-repeated punctureMatrix marks as punctured, into out. It
// returns the number of bit errors corrected.
//
// Grounded on M17Viterbi.hpp::decodePunctured.
func (h *Viterbi) DecodePunctured(in []byte, out []byte, punctureMatrix []byte) uint16 {
	h.prevMetrics = [numStates]uint16{}
	h.currMetrics = [numStates]uint16{}
	h.history = h.history[:0]

	punctIndex := 0
	bitPos := 0
	var punctBitCnt uint16
	inBits := len(in) * 8

	for bitPos < inBits {
		sym := [2]uint8{1, 1}

		for i := 0; i < 2; i++ {
			if punctureMatrix[punctIndex] != 0 {
				if GetBit(in, bitPos) {
					sym[i] = 2
				} else {
					sym[i] = 0
				}
				bitPos++
			} else {
				punctBitCnt++
			}

			punctIndex++
			if punctIndex >= len(punctureMatrix) {
				punctIndex = 0
			}
		}

		h.decodeBit(sym[0], sym[1])
	}

	return (h.chainback(out) - punctBitCnt) / ((viterbiK - 1) >> 1)
}
