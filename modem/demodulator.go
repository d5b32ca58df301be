package modem

import (
	"math"

	"github.com/openrtx/m17-modem/internal/basebandsink"
	"github.com/openrtx/m17-modem/m17"
)

// RXSamplesPerSymbol is the RX-side oversampling rate, spec.md §4.8/§9:
// 24 kHz / 4800 Bd = 5.
const RXSamplesPerSymbol = 5

// SyncwordSymbols is the number of 4-FSK symbols a 2-byte syncword encodes
// (4 symbols/byte), matching M17Demodulator's M17_SYNCWORD_SYMBOLS.
const SyncwordSymbols = 8

// RXPhaseOffset is the sample phase, within each RXSamplesPerSymbol-sample
// window, at which a symbol is sampled once timing lock is established.
// Grounded on spec.md §4.11 step 2: "sampled every 5 samples starting from
// offset+2".
const RXPhaseOffset = 2

// FrameStrideSamples is the raw-sample distance between one frame's
// syncword and the next, for back-to-back transmission: a full 192-symbol
// frame at RXSamplesPerSymbol samples/symbol.
const FrameStrideSamples = FrameSymbols * RXSamplesPerSymbol

// syncSearchSamples is how many raw samples convolution needs to test one
// candidate syncword position.
const syncSearchSamples = SyncwordSymbols * RXSamplesPerSymbol

// LockLossFrames is the number of consecutive frames a locked demodulator
// may fail to find a syncword at the expected stride before it gives up
// timing lock and resets its correlation/quantization statistics, matching
// spec.md §4.11 step 5.
const LockLossFrames = 4

// DefaultThresholdFactor is the starting correlation-to-stddev ratio (k in
// spec.md §4.11 step 1: "absolute correlation exceeds k·stddev(correlation)")
// a candidate syncword position must clear to be declared found.
const DefaultThresholdFactor = 2.0

// correlationAlpha/quantizationAttack/quantizationDecay set how quickly the
// running correlation and quantization statistics track the signal.
// Grounded on M17Demodulator's EMA-based stats
// (updateCorrelationStats/updateQuantizationStats in
// _examples/original_source/tests/unit/M17_demodulator.cpp); the original
// header never pins down the exact time constants, so these are chosen to
// be fast enough to track a 4800 Bd stream without the usual "tuneable
// factor" caveat spec.md §4.11 itself makes for k.
const (
	correlationAlpha   = 0.05
	quantizationAttack = 0.2
	quantizationDecay  = 0.02
)

// syncPattern is one candidate syncword's pre-computed 4-FSK symbol
// sequence, used as a matched-filter kernel during syncword search.
type syncPattern struct {
	kind    FrameType
	symbols [SyncwordSymbols]int8
}

// symbolPattern expands a 2-byte syncword into its 8-symbol 4-FSK sequence.
func symbolPattern(sw m17.Syncword) [SyncwordSymbols]int8 {
	var out [SyncwordSymbols]int8
	a := m17.ByteToSymbols(sw[0])
	b := m17.ByteToSymbols(sw[1])
	copy(out[0:4], a[:])
	copy(out[4:8], b[:])
	return out
}

// syncPatterns are the candidate syncword/preamble patterns spec.md §4.11
// step 1 names: "LSF, stream, packet, EOT, preamble". BERT (spec.md §3's
// syncword table, SPEC_FULL.md §6) is included too so the demodulator can
// recognize BERT frames the same way FrameDecoder does.
var syncPatterns = []syncPattern{
	{FrameLinkSetup, symbolPattern(m17.SyncLSF)},
	{FrameStream, symbolPattern(m17.SyncStream)},
	{FramePacket, symbolPattern(m17.SyncPacket)},
	{FrameBERT, symbolPattern(m17.SyncBERT)},
	{FrameEOT, symbolPattern(m17.SyncEOT)},
	{FramePreamble, symbolPattern(m17.Syncword{m17.PreambleByte, m17.PreambleByte})},
}

// streamReferencePattern is the pattern whose correlation feeds the running
// noise-floor statistics (corrEma/corrVar), mirroring
// M17_demodulator.cpp's use of stream_conv for updateCorrelationStats
// regardless of which pattern a given offset actually matches.
var streamReferencePattern = symbolPatternFor(FrameStream)

func symbolPatternFor(kind FrameType) [SyncwordSymbols]int8 {
	for _, p := range syncPatterns {
		if p.kind == kind {
			return p.symbols
		}
	}
	return [SyncwordSymbols]int8{}
}

// Demodulator recovers 4-FSK symbols and full 48-byte frames from a sampled
// baseband stream. It maintains a sliding window of unconsumed raw samples,
// searches it for a syncword by matched-filter correlation against every
// candidate pattern, locks timing to the found offset, and quantizes
// subsequent symbols against running max/min envelope statistics. Grounded
// on M17Demodulator.h (structure) and
// _examples/original_source/tests/unit/M17_demodulator.cpp (the concrete
// convolution/updateCorrelationStats/nextFrameSync/updateQuantizationStats/
// quantize algorithm the header itself omits).
type Demodulator struct {
	source basebandsink.Source
	buf    []int16 // unconsumed raw samples, oldest first

	locked       bool
	lastKind     FrameType
	missedFrames int

	thresholdFactor float64
	corrEma         float64
	corrVar         float64

	quantMaxEma float64
	quantMinEma float64
}

// NewDemodulator returns a Demodulator pulling samples from source.
func NewDemodulator(source basebandsink.Source) *Demodulator {
	d := &Demodulator{source: source, thresholdFactor: DefaultThresholdFactor}
	d.resetQuantization()
	return d
}

// Reset drops timing lock and all running statistics, forcing the next
// NextFrame call to reacquire sync from scratch. Matches spec.md §4.11 step
// 5's lock-loss reset.
func (d *Demodulator) Reset() {
	d.locked = false
	d.lastKind = FrameUnknown
	d.missedFrames = 0
	d.corrEma = 0
	d.corrVar = 0
	d.resetQuantization()
}

func (d *Demodulator) resetQuantization() {
	// Seed the envelope trackers to a plausible +3/-3 amplitude at the
	// ~7168-per-level scale used by shaping.FloatFIR/IntegerFIR, so the
	// first few symbols aren't quantized against a degenerate zero-width
	// envelope; they adapt from there.
	const initialEnvelope = 21504 // 3 * 7168
	d.quantMaxEma = initialEnvelope
	d.quantMinEma = -initialEnvelope
}

// fill reads from source until at least n samples are buffered.
func (d *Demodulator) fill(n int) error {
	for len(d.buf) < n {
		chunk := make([]int16, 128)
		read, err := d.source.ReadSamples(chunk)
		if err != nil {
			return err
		}
		if read == 0 {
			return errFrameIncomplete
		}
		d.buf = append(d.buf, chunk[:read]...)
	}
	return nil
}

// advance discards the first n samples of buf (clamped to its length),
// keeping whatever remains for the next search/fast-path check.
func (d *Demodulator) advance(n int) {
	if n <= 0 {
		return
	}
	if n >= len(d.buf) {
		d.buf = d.buf[:0]
		return
	}
	d.buf = append([]int16(nil), d.buf[n:]...)
}

func convolution(samples []int16, offset int, pattern [SyncwordSymbols]int8) int32 {
	var acc int32
	for k, sym := range pattern {
		idx := offset + k*RXSamplesPerSymbol
		if idx >= len(samples) {
			break
		}
		acc += int32(sym) * int32(samples[idx])
	}
	return acc
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// updateCorrelationStats folds one new correlation sample into the running
// mean/variance EMAs, grounded on
// M17Demodulator::updateCorrelationStats/getCorrelationEma/
// getCorrelationStddev.
func (d *Demodulator) updateCorrelationStats(x float64) {
	d.corrEma += correlationAlpha * (x - d.corrEma)
	dev := x - d.corrEma
	d.corrVar += correlationAlpha * (dev*dev - d.corrVar)
}

func (d *Demodulator) correlationStddev() float64 {
	if d.corrVar <= 0 {
		return 0
	}
	return math.Sqrt(d.corrVar)
}

// searchSync scans the whole buffered window for the best-correlating
// syncword position, matching M17Demodulator::nextFrameSync. It folds every
// tested offset's reference-pattern correlation into the running stats
// (mirroring M17_demodulator.cpp updating stats from stream_conv at every
// offset, not just the winning one) before testing the k·stddev threshold
// against the best candidate found.
func (d *Demodulator) searchSync() (int, FrameType, bool) {
	maxOffset := len(d.buf) - syncSearchSamples
	if maxOffset < 0 {
		return 0, FrameUnknown, false
	}

	bestOffset := -1
	var bestAbs int32
	var bestKind FrameType

	for offset := 0; offset <= maxOffset; offset++ {
		ref := convolution(d.buf, offset, streamReferencePattern)
		d.updateCorrelationStats(float64(ref))

		for _, cand := range syncPatterns {
			c := convolution(d.buf, offset, cand.symbols)
			abs := absInt32(c)
			if abs > bestAbs {
				bestAbs = abs
				bestOffset = offset
				bestKind = cand.kind
			}
		}
	}

	threshold := d.thresholdFactor * d.correlationStddev()
	if bestOffset < 0 || float64(bestAbs) <= threshold {
		return 0, FrameUnknown, false
	}
	return bestOffset, bestKind, true
}

// locate looks for the next frame's syncword. When already locked, it first
// checks the expected stride position (offset 0 of the trimmed buffer,
// since advance() always consumes through the end of the previous frame)
// before falling back to a full search, matching spec.md §4.11's "timing
// lock" step. It only asks fill() for as many samples as each stage
// actually needs, so a stream of back-to-back frames with no trailing
// margin never forces an over-read past the locked fast path.
func (d *Demodulator) locate() (int, FrameType, bool, error) {
	if d.locked {
		if err := d.fill(syncSearchSamples); err != nil {
			return 0, FrameUnknown, false, err
		}
		pattern := symbolPatternFor(d.lastKind)
		c := convolution(d.buf, 0, pattern)
		d.updateCorrelationStats(float64(c))
		if float64(absInt32(c)) > d.thresholdFactor*d.correlationStddev() {
			return 0, d.lastKind, true, nil
		}
	}

	if err := d.fill(FrameStrideSamples + syncSearchSamples); err != nil {
		// A source that ends right after one full frame window is still
		// searched; anything shorter cannot hold a frame.
		if err != errFrameIncomplete || len(d.buf) < FrameStrideSamples {
			return 0, FrameUnknown, false, err
		}
	}
	idx, kind, found := d.searchSync()
	return idx, kind, found, nil
}

// updateQuantizationStats tracks the positive/negative peak envelopes used
// to slice a soft sample into a 4-FSK symbol, grounded on
// M17Demodulator::updateQuantizationStats: fast attack toward a new peak,
// slow decay otherwise.
func (d *Demodulator) updateQuantizationStats(sample float64) {
	if sample > d.quantMaxEma {
		d.quantMaxEma += quantizationAttack * (sample - d.quantMaxEma)
	} else {
		d.quantMaxEma += quantizationDecay * (sample - d.quantMaxEma)
	}
	if sample < d.quantMinEma {
		d.quantMinEma += quantizationAttack * (sample - d.quantMinEma)
	} else {
		d.quantMinEma += quantizationDecay * (sample - d.quantMinEma)
	}
}

// quantize slices a soft sample to the nearest of the four 4-FSK symbol
// levels by comparison to the max/min envelope midpoints, matching
// M17Demodulator::quantize and spec.md §4.11 step 3 exactly.
func (d *Demodulator) quantize(sample float64) int8 {
	switch {
	case sample >= d.quantMaxEma/2:
		return 3
	case sample >= 0:
		return 1
	case sample >= d.quantMinEma/2:
		return -1
	default:
		return -3
	}
}

// symbolsToFrame packs 192 recovered 4-FSK symbols (8 syncword + 184 body)
// back into a 48-byte Frame.
func symbolsToFrame(symbols [FrameSymbols]int8) m17.Frame {
	var frame m17.Frame
	packed := m17.PackSymbols(symbols[:])
	copy(frame[:], packed)
	return frame
}

// NextFrame blocks on source until it has located a syncword and recovered
// one full 48-byte frame (syncword search/timing lock, envelope-based
// symbol quantization, and symbol packing), or returns an error if the
// source is exhausted first. Grounded on M17Demodulator.h::nextFrame and
// the search/quantize loop in
// _examples/original_source/tests/unit/M17_demodulator.cpp.
func (d *Demodulator) NextFrame() (m17.Frame, error) {
	for {
		idx, kind, found, err := d.locate()
		if err != nil {
			return m17.Frame{}, err
		}
		if !found {
			d.missedFrames++
			if d.missedFrames >= LockLossFrames {
				d.Reset()
			}
			// A syncword may straddle the window boundary; keep the tail
			// that could still contain its start and pull in more samples.
			d.advance(len(d.buf) - (syncSearchSamples - 1))
			continue
		}

		if err := d.fill(idx + FrameStrideSamples); err != nil {
			return m17.Frame{}, err
		}

		var symbols [FrameSymbols]int8
		for k := 0; k < FrameSymbols; k++ {
			sampleIdx := idx + RXPhaseOffset + k*RXSamplesPerSymbol
			if sampleIdx >= len(d.buf) {
				return m17.Frame{}, errFrameIncomplete
			}
			soft := float64(d.buf[sampleIdx])
			d.updateQuantizationStats(soft)
			symbols[k] = d.quantize(soft)
		}

		d.missedFrames = 0
		d.locked = true
		d.lastKind = kind
		d.advance(idx + FrameStrideSamples)

		return symbolsToFrame(symbols), nil
	}
}

// errFrameIncomplete is returned by NextFrame when the source runs out of
// samples mid-frame.
var errFrameIncomplete = frameError("modem: baseband source exhausted mid-frame")

type frameError string

func (e frameError) Error() string { return string(e) }
