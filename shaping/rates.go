package shaping

// Fixed sample-rate constants, spec.md §4.8/§9: the 4800 Bd symbol rate is
// fixed by the M17 spec, while the sample rates are named constants so a
// caller can retarget hardware without touching the filter math.
const (
	TXSampleRateHz = 48000
	RXSampleRateHz = 24000

	// TXSamplesPerSymbol is TXSampleRateHz / SymbolRate.
	TXSamplesPerSymbol = 10
	// RXSamplesPerSymbol is RXSampleRateHz / SymbolRate.
	RXSamplesPerSymbol = 5
)
