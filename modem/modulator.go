package modem

import (
	"github.com/openrtx/m17-modem/internal/basebandsink"
	"github.com/openrtx/m17-modem/m17"
	"github.com/openrtx/m17-modem/shaping"
)

// Frame samples/symbols per spec.md §4/§9, grounded on
// M17Modulator.h::M17_RTX_SAMPLE_RATE / M17_FRAME_SAMPLES / M17_FRAME_SYMBOLS.
const (
	TXSampleRate = shaping.TXSampleRateHz
	FrameSamples = FrameSymbols * shaping.TXSamplesPerSymbol
	FrameSymbols = 192 // 48 bytes/frame * 4 symbols/byte
)

// Modulator turns sync+frame-body byte pairs into 4-FSK baseband samples and
// pushes them to an injected Sink. It holds no second sample buffer of its
// own: each Send generates one frame's samples and hands them to the Sink,
// so any overlap of generation and playback is up to the Sink. Grounded on
// M17Modulator.h.
type Modulator struct {
	sink basebandsink.Sink
	fir  *shaping.IntegerFIR

	running bool
}

// NewModulator returns a Modulator that pushes generated baseband to sink.
func NewModulator(sink basebandsink.Sink) *Modulator {
	return &Modulator{sink: sink, fir: shaping.NewIntegerFIR()}
}

// Init prepares the modulator for a new transmission. Grounded on
// M17Modulator.h::init.
func (m *Modulator) Init() {
	m.fir = shaping.NewIntegerFIR()
	m.running = false
}

// Terminate ends the current transmission, blocking until the sink has
// drained the final buffer. Grounded on M17Modulator.h::terminate.
func (m *Modulator) Terminate() error {
	m.running = false
	return m.sink.WaitDrained()
}

// Send generates the baseband for one 48-byte frame (sync + 46-byte body)
// and pushes it to the sink, blocking on the sink's own backpressure before
// returning. Matches M17Modulator.h::send's "generate, then transmit,
// blocking on buffer drain" contract; isLast lets a caller signal
// Terminate() is coming next without an extra call.
func (m *Modulator) Send(sync [2]byte, body [46]byte, isLast bool) error {
	m.running = true

	var frame m17.Frame
	frame[0], frame[1] = sync[0], sync[1]
	copy(frame[2:], body[:])

	symbols := m.generateSymbols(frame)
	samples := m.fir.Shape(symbols)

	if err := m.sink.PushSamples(samples); err != nil {
		return err
	}

	if isLast {
		return m.Terminate()
	}
	return nil
}

// generateSymbols maps each byte of frame to its four 4-FSK symbols,
// matching M17Modulator.h::byteToSymbols / generateBaseband.
func (m *Modulator) generateSymbols(frame m17.Frame) []int8 {
	symbols := make([]int8, 0, FrameSymbols)
	for _, b := range frame {
		s := m17.ByteToSymbols(b)
		symbols = append(symbols, s[:]...)
	}
	return symbols
}
