package shaping

// FloatFIR is a floating-point RRC pulse shaper: it upsamples a 4-FSK
// symbol stream by TXSamplesPerSymbol (zero-stuffing) and convolves with
// RRCTaps, matching the "Float FIR" variant of spec.md §4.8.
type FloatFIR struct {
	taps []float32
	hist []float32 // circular delay line, length len(taps)
	pos  int
}

// NewFloatFIR returns a FloatFIR using RRCTaps.
func NewFloatFIR() *FloatFIR {
	return &FloatFIR{
		taps: RRCTaps,
		hist: make([]float32, len(RRCTaps)),
	}
}

// pushSample shifts one new sample into the delay line and returns the
// filter's output for it.
func (f *FloatFIR) pushSample(sample float32) float32 {
	f.hist[f.pos] = sample
	var acc float32
	idx := f.pos
	for _, tap := range f.taps {
		acc += tap * f.hist[idx]
		idx--
		if idx < 0 {
			idx = len(f.hist) - 1
		}
	}
	f.pos++
	if f.pos >= len(f.hist) {
		f.pos = 0
	}
	return acc
}

// Shape upsamples symbols by TXSamplesPerSymbol (zero-stuffed) and returns
// the filtered baseband as signed 16-bit PCM centered at zero, scaled per
// the ~7168 convention described in spec.md §4.8 — the same signed-PCM
// convention used everywhere else in this tree (internal/basebandsink,
// cmd/m17mod's writeRaw, cmd/m17demod's readRaw).
func (f *FloatFIR) Shape(symbols []int8) []int16 {
	const scale = 7168.0

	out := make([]int16, 0, len(symbols)*TXSamplesPerSymbol)

	for _, sym := range symbols {
		for phase := 0; phase < TXSamplesPerSymbol; phase++ {
			var in float32
			if phase == 0 {
				in = float32(sym)
			}
			filtered := f.pushSample(in)
			out = append(out, clampToInt16(float64(filtered)*scale))
		}
	}
	return out
}

func clampToInt16(v float64) int16 {
	if v < -32768 {
		return -32768
	}
	if v > 32767 {
		return 32767
	}
	return int16(v)
}

// IntegerFIR is a table-driven pulse shaper: for each of the four
// possible symbol values and each of the TXSamplesPerSymbol phases, it
// precomputes the tap contributions, then sums precomputed rows instead of
// multiplying taps by symbols at shape time, matching the "lookup tables... 4FSK"
// description of M17LookupModulator.hpp.
type IntegerFIR struct {
	// contributions[symbolIndex][phase] is the length-len(RRCTaps)/sps
	// (rounded up) contribution row for that symbol value sampled at that
	// phase offset.
	contributions [4][TXSamplesPerSymbol][]float32
	hist          []int8 // last ceil(len(taps)/sps) symbols
}

var symbolValues = [4]int8{-3, -1, +1, +3}

// NewIntegerFIR precomputes the per-symbol, per-phase contribution tables
// from RRCTaps.
func NewIntegerFIR() *IntegerFIR {
	span := (len(RRCTaps) + TXSamplesPerSymbol - 1) / TXSamplesPerSymbol

	f := &IntegerFIR{hist: make([]int8, span)}
	for si, sym := range symbolValues {
		for phase := 0; phase < TXSamplesPerSymbol; phase++ {
			row := make([]float32, span)
			for k := 0; k < span; k++ {
				tapIdx := phase + k*TXSamplesPerSymbol
				if tapIdx < len(RRCTaps) {
					row[k] = RRCTaps[tapIdx] * float32(sym)
				}
			}
			f.contributions[si][phase] = row
		}
	}
	return f
}

func symbolIndex(sym int8) int {
	for i, v := range symbolValues {
		if v == sym {
			return i
		}
	}
	return 0
}

// Shape is the IntegerFIR equivalent of FloatFIR.Shape: for each input
// symbol it emits TXSamplesPerSymbol output samples by summing the
// precomputed per-phase contribution rows of the current and
// recently-seen symbols (the FIR's support window), with no per-tap
// multiplication; the only multiply is the final output scaling.
func (f *IntegerFIR) Shape(symbols []int8) []int16 {
	const scale = 7168.0

	out := make([]int16, 0, len(symbols)*TXSamplesPerSymbol)
	span := len(f.hist)

	window := make([]int8, 0, len(symbols)+span)
	window = append(window, f.hist...)
	window = append(window, symbols...)

	for i := range symbols {
		for phase := 0; phase < TXSamplesPerSymbol; phase++ {
			var acc float32
			for k := 0; k < span; k++ {
				sym := window[i+span-k]
				if sym == 0 {
					continue // zero-filled history: no symbol sent yet
				}
				acc += f.contributions[symbolIndex(sym)][phase][k]
			}
			out = append(out, clampToInt16(float64(acc)*scale))
		}
	}

	if len(symbols) >= span {
		copy(f.hist, symbols[len(symbols)-span:])
	} else {
		copy(f.hist, window[len(window)-span:])
	}

	return out
}
