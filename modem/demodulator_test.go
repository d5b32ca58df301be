package modem

import (
	"testing"

	"github.com/openrtx/m17-modem/internal/basebandsink"
	"github.com/openrtx/m17-modem/m17"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rxScale is the rectangular-pulse amplitude used to synthesize RX-rate test
// baseband: each symbol held flat across its RXSamplesPerSymbol-sample
// window, at the same ~7168-per-level scale shaping.FloatFIR/IntegerFIR use
// on transmit. No RRC shaping is applied; the correlation/quantization
// algorithm under test only looks at one sample per symbol period, so an
// unshaped step waveform exercises it the same way a shaped one would.
const rxScale = 7168

// synthesizeFrame renders one on-air frame (syncword + 46-byte body) as
// RXSamplesPerSymbol-oversampled raw PCM.
func synthesizeFrame(sync m17.Syncword, body [46]byte) []int16 {
	var frame m17.Frame
	frame[0], frame[1] = sync[0], sync[1]
	copy(frame[2:], body[:])

	symbols := m17.UnpackSymbols(frame[:])
	samples := make([]int16, 0, len(symbols)*RXSamplesPerSymbol)
	for _, sym := range symbols {
		v := int16(int(sym) * rxScale)
		for i := 0; i < RXSamplesPerSymbol; i++ {
			samples = append(samples, v)
		}
	}
	return samples
}

func Test_Demodulator_NextFrame_FindsSyncAndRecoversFrame(t *testing.T) {
	// A mostly-zero body keeps the correlation peak at the true syncword
	// position unambiguous: M17's syncwords are chosen for low mutual
	// cross-correlation, but an arbitrary noisy body could coincidentally
	// out-correlate it against some other candidate pattern.
	var body [46]byte
	body[0] = 0xA5

	// Lead with some quiet (zero) samples, the way a receiver would see
	// silence/noise before a transmission starts.
	samples := make([]int16, syncSearchSamples)
	samples = append(samples, synthesizeFrame(m17.SyncLSF, body)...)

	src := basebandsink.NewMemorySource(samples)
	demod := NewDemodulator(src)

	frame, err := demod.NextFrame()
	require.NoError(t, err)

	var want m17.Frame
	want[0], want[1] = m17.SyncLSF[0], m17.SyncLSF[1]
	copy(want[2:], body[:])
	assert.Equal(t, want, frame)
	assert.True(t, demod.locked)
}

func Test_Demodulator_NextFrame_LocksAcrossConsecutiveFrames(t *testing.T) {
	var body1, body2 [46]byte
	body1[0] = 0x11
	body2[0] = 0xEE

	var samples []int16
	samples = append(samples, synthesizeFrame(m17.SyncStream, body1)...)
	samples = append(samples, synthesizeFrame(m17.SyncStream, body2)...)

	src := basebandsink.NewMemorySource(samples)
	demod := NewDemodulator(src)

	frame1, err := demod.NextFrame()
	require.NoError(t, err)
	assert.Equal(t, byte(body1[0]), frame1[2])

	frame2, err := demod.NextFrame()
	require.NoError(t, err)
	assert.Equal(t, byte(body2[0]), frame2[2])
}

func Test_Demodulator_NextFrame_ErrorsOnShortSource(t *testing.T) {
	src := basebandsink.NewMemorySource(make([]int16, RXSamplesPerSymbol))
	demod := NewDemodulator(src)

	_, err := demod.NextFrame()
	require.Error(t, err)
}

func Test_Demodulator_NextFrame_NoSyncInSilenceErrors(t *testing.T) {
	src := basebandsink.NewMemorySource(make([]int16, FrameStrideSamples*2))
	demod := NewDemodulator(src)

	_, err := demod.NextFrame()
	require.Error(t, err)
	assert.False(t, demod.locked)
}

func Test_Demodulator_Reset_ClearsLock(t *testing.T) {
	var body [46]byte
	samples := synthesizeFrame(m17.SyncLSF, body)

	src := basebandsink.NewMemorySource(samples)
	demod := NewDemodulator(src)

	_, err := demod.NextFrame()
	require.NoError(t, err)
	require.True(t, demod.locked)

	demod.Reset()
	require.False(t, demod.locked)
}
