package modem

import (
	"testing"

	"github.com/openrtx/m17-modem/m17"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testLSF(t *testing.T) m17.LSF {
	dst, err := m17.EncodeCallsign("N0CALL", true)
	require.NoError(t, err)
	src, err := m17.EncodeCallsign("M17TEST", true)
	require.NoError(t, err)
	return m17.LSF{
		Dst:  dst,
		Src:  src,
		Type: m17.StreamType{DataMode: m17.DataModeStream, DataType: m17.DataTypeVoice, CAN: 5},
	}
}

func Test_FrameEncoder_EncodeLSF_RoundTrips(t *testing.T) {
	lsf := testLSF(t)
	enc := NewFrameEncoder(lsf)

	body := enc.EncodeLSF(lsf)

	var frame m17.Frame
	frame[0], frame[1] = m17.SyncLSF[0], m17.SyncLSF[1]
	copy(frame[2:], body[:])

	dec := NewFrameDecoder()
	kind := dec.DecodeFrame(frame)
	assert.Equal(t, FrameLinkSetup, kind)

	got, ok := dec.GetLSF()
	require.True(t, ok)
	assert.Equal(t, lsf.Dst, got.Dst)
	assert.Equal(t, lsf.Src, got.Src)
}

func Test_FrameEncoder_EncodeStreamFrame_RoundTrips(t *testing.T) {
	lsf := testLSF(t)
	enc := NewFrameEncoder(lsf)
	dec := NewFrameDecoder()

	var payload [16]byte
	for i := range payload {
		payload[i] = byte(i * 7)
	}

	for n := 0; n < 6; n++ {
		isLast := n == 5
		body := enc.EncodeStreamFrame(payload, isLast)

		var frame m17.Frame
		frame[0], frame[1] = m17.SyncStream[0], m17.SyncStream[1]
		copy(frame[2:], body[:])

		kind := dec.DecodeFrame(frame)
		assert.Equal(t, FrameStream, kind)

		gotNum, gotLast, gotPayload := dec.GetStreamFrame()
		assert.Equal(t, uint16(n), gotNum)
		assert.Equal(t, isLast, gotLast)
		assert.Equal(t, payload, gotPayload)
	}

	// After six LICH segments the reassembled LSF should also be available.
	got, ok := dec.GetLSF()
	require.True(t, ok)
	assert.Equal(t, lsf.Dst, got.Dst)
	assert.Equal(t, lsf.Src, got.Src)
}

func Test_FrameDecoder_UnknownSyncword(t *testing.T) {
	dec := NewFrameDecoder()
	var frame m17.Frame
	frame[0], frame[1] = 0x00, 0x00
	assert.Equal(t, FrameUnknown, dec.DecodeFrame(frame))
}

func Test_PacketFrame_FramingRoundTrips(t *testing.T) {
	var payload [26]byte
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	payload[25] = 0x80 | 10 // last-frame flag set, 10 bytes valid

	body := EncodePacketFrame(payload)

	var frame m17.Frame
	frame[0], frame[1] = m17.SyncPacket[0], m17.SyncPacket[1]
	copy(frame[2:], body[:])

	dec := NewFrameDecoder()
	kind := dec.DecodeFrame(frame)
	assert.Equal(t, FramePacket, kind)

	got, ok := dec.GetPacketFrame()
	require.True(t, ok)

	var want [46]byte
	copy(want[:], payload[:])
	assert.Equal(t, want, got)
}

func Test_FrameDecoder_BERT_ExposesPayloadUninterpreted(t *testing.T) {
	var body [46]byte
	for i := range body {
		body[i] = byte(i * 3) // stand-in PRBS-like content
	}

	var frame m17.Frame
	frame[0], frame[1] = m17.SyncBERT[0], m17.SyncBERT[1]
	copy(frame[2:], body[:])

	dec := NewFrameDecoder()
	assert.Equal(t, FrameBERT, dec.DecodeFrame(frame))

	got, ok := dec.GetBERTFrame()
	require.True(t, ok)
	assert.Equal(t, body, got)
}

func Test_FrameDecoder_EOT(t *testing.T) {
	dec := NewFrameDecoder()
	var frame m17.Frame
	frame[0], frame[1] = m17.SyncEOT[0], m17.SyncEOT[1]
	copy(frame[2:], EncodeEOTFrame()[:])
	assert.Equal(t, FrameEOT, dec.DecodeFrame(frame))
}

func Test_FrameDecoder_Preamble(t *testing.T) {
	dec := NewFrameDecoder()
	var frame m17.Frame
	frame[0], frame[1] = m17.PreambleByte, m17.PreambleByte
	assert.Equal(t, FramePreamble, dec.DecodeFrame(frame))
}

func Test_FrameEncoder_UpdateLSFData_DeferredUntilLichBoundary(t *testing.T) {
	lsf1 := testLSF(t)
	lsf2 := lsf1
	lsf2.Type.CAN = 9

	enc := NewFrameEncoder(lsf1)
	var payload [16]byte

	// Queue the update mid-cycle (after segment 0 has already gone out).
	enc.EncodeStreamFrame(payload, false) // segment 0
	enc.UpdateLSFData(lsf2)
	enc.EncodeStreamFrame(payload, false) // segment 1, should still be lsf1

	assert.Equal(t, lsf1.Pack(), enc.CurrentLSF())

	for i := 0; i < 4; i++ {
		enc.EncodeStreamFrame(payload, false) // segments 2..5
	}
	// Segment 0 of the next cycle: swap should have happened by now.
	enc.EncodeStreamFrame(payload, false)
	assert.Equal(t, lsf2.Pack(), enc.CurrentLSF())
}

func Test_FrameRoundtrip_RandomPayloads(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lsf := m17.LSF{
			Dst:  m17.Callsign{1, 2, 3, 4, 5, 6},
			Src:  m17.Callsign{6, 5, 4, 3, 2, 1},
			Type: m17.StreamType{DataMode: m17.DataModeStream},
		}
		enc := NewFrameEncoder(lsf)
		dec := NewFrameDecoder()

		var payload [16]byte
		for i := range payload {
			payload[i] = rapid.Byte().Draw(t, "b")
		}

		body := enc.EncodeStreamFrame(payload, true)
		var frame m17.Frame
		frame[0], frame[1] = m17.SyncStream[0], m17.SyncStream[1]
		copy(frame[2:], body[:])

		kind := dec.DecodeFrame(frame)
		assert.Equal(t, FrameStream, kind)

		_, isLast, gotPayload := dec.GetStreamFrame()
		assert.True(t, isLast)
		assert.Equal(t, payload, gotPayload)
	})
}
