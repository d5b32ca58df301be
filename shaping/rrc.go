// Package shaping implements the M17 root-raised-cosine pulse shaping
// filter used to generate TX baseband samples from a 4-FSK symbol stream.
// It has no RX matched-filter form: the modem's demodulator correlates raw
// RX samples against syncword symbol patterns without passing them through
// this package. Grounded on M17DSP.h and M17LookupModulator.h.
//
// M17DSP.h declares its 81-tap coefficient table as an `extern`, populated
// elsewhere in the firmware build; those numeric values are not present in
// the reference sources available here. RRCTaps below is instead computed
// from the M17 protocol's published root-raised-cosine formula (roll-off
// 0.5, matched to a 4800 Bd symbol rate), which is the documented
// derivation of that same table.
package shaping

import "math"

const (
	// NumTaps is the RRC filter length, spec.md §4.8.
	NumTaps = 81
	// RollOff is the RRC excess bandwidth factor specified by the M17
	// protocol.
	RollOff = 0.5
	// SymbolRate is the fixed M17 symbol rate in Bd.
	SymbolRate = 4800.0
)

// RRCTaps holds the 81-tap symmetric root-raised-cosine filter
// coefficients, normalized to unit DC gain, sampled at TXSamplesPerSymbol
// samples/symbol (48 kHz / 4800 Bd = 10).
var RRCTaps = buildRRCTaps(NumTaps, RollOff, TXSamplesPerSymbol)

// buildRRCTaps evaluates the standard root-raised-cosine impulse response
// at n taps, roll-off beta, samples/symbol sps, centered at (n-1)/2, and
// normalizes the result to unit sum (unit DC gain).
func buildRRCTaps(n int, beta float64, sps int) []float32 {
	taps := make([]float64, n)
	center := float64(n-1) / 2

	for i := 0; i < n; i++ {
		t := (float64(i) - center) / float64(sps)
		taps[i] = rrcImpulse(t, beta)
	}

	var sum float64
	for _, v := range taps {
		sum += v
	}

	out := make([]float32, n)
	for i, v := range taps {
		out[i] = float32(v / sum)
	}
	return out
}

// rrcImpulse evaluates the continuous-time RRC impulse response h(t) at
// symbol-period-normalized time t, for excess bandwidth beta.
func rrcImpulse(t, beta float64) float64 {
	const eps = 1e-8

	if math.Abs(t) < eps {
		return 1.0 - beta + 4*beta/math.Pi
	}

	if beta > eps && math.Abs(math.Abs(4*beta*t)-1.0) < eps {
		return (beta / math.Sqrt2) * ((1+2/math.Pi)*math.Sin(math.Pi/(4*beta)) +
			(1-2/math.Pi)*math.Cos(math.Pi/(4*beta)))
	}

	num := math.Sin(math.Pi*t*(1-beta)) + 4*beta*t*math.Cos(math.Pi*t*(1+beta))
	den := math.Pi * t * (1 - math.Pow(4*beta*t, 2))
	return num / den
}
