// Package modem assembles the m17 package's coding primitives into the
// on-air frame pipeline: LSF/stream/packet/EOT/BERT frame encoding and
// decoding, and the baseband modulator/demodulator. Grounded on
// M17FrameEncoder.hpp, M17FrameDecoder.hpp, M17Modulator.h and
// M17Demodulator.h.
package modem

import "github.com/openrtx/m17-modem/m17"

// FrameEncoder turns LSF and payload data into fully coded, punctured,
// interleaved and decorrelated 46-byte frame bodies ready for syncword
// prefixing. Grounded on M17FrameEncoder.hpp.
//
// Stream transmission periodically re-embeds the LSF five bytes at a time via
// the LICH field; FrameEncoder holds the current (currLsf) and a pending
// replacement (newLsf) so a mid-stream LSF update only takes effect at a
// LICH cycle boundary (segment 0), matching M17FrameEncoder::updateLsfData.
type FrameEncoder struct {
	enc *m17.Encoder

	currLsf  [30]byte
	newLsf   [30]byte
	lsfDirty bool

	lichSegment uint8 // 0..5, next LICH segment to embed
	frameNumber uint16
}

// NewFrameEncoder returns a FrameEncoder for lsf.
func NewFrameEncoder(lsf m17.LSF) *FrameEncoder {
	fe := &FrameEncoder{enc: m17.NewEncoder()}
	fe.currLsf = lsf.Pack()
	fe.newLsf = fe.currLsf
	return fe
}

// Reset clears the stream frame counter and LICH cursor back to the start
// of a transmission, matching M17FrameEncoder::reset.
func (fe *FrameEncoder) Reset() {
	fe.lichSegment = 0
	fe.frameNumber = 0
}

// CurrentLSF returns the 30-byte packed LSF currently being embedded in the
// LICH field.
func (fe *FrameEncoder) CurrentLSF() [30]byte {
	return fe.currLsf
}

// UpdateLSFData queues lsf to replace the LSF embedded in the LICH field.
// The swap only takes effect the next time the LICH cursor reaches segment
// 0, so an in-flight 6-segment cycle is never torn, matching
// M17FrameEncoder::updateLsfData.
func (fe *FrameEncoder) UpdateLSFData(lsf m17.LSF) {
	fe.newLsf = lsf.Pack()
	fe.lsfDirty = true
}

// encodeAndPuncture convolutionally encodes data (inBits significant bits,
// MSB-first, flushed with 4 trailing zero bits) and punctures the result
// against matrix, returning outBytes bytes of surviving bits. Interleaving
// and decorrelation are the caller's responsibility, since they apply to
// the full frame body and not necessarily to this function's output alone
// (a stream frame's LICH field is unencoded but still participates in
// those two steps).
func encodeAndPuncture(enc *m17.Encoder, data []byte, inBits int, matrix []byte, outBytes int) []byte {
	enc.Reset()
	coded := enc.Encode(data)
	flush := enc.Flush()
	coded = append(coded, flush)

	out := make([]byte, outBytes)
	m17.Puncture(coded, inBits, matrix, out)
	return out
}

// EncodeLSF builds the 46-byte body of an LSF frame: the 30-byte packed LSF
// (240 bits), convolutionally encoded (+4 flush bits = 488 bits), punctured
// by m17.LSFPuncture to 368 bits (46 bytes), interleaved and decorrelated.
// Grounded on M17FrameEncoder.hpp::encodeLsf.
func (fe *FrameEncoder) EncodeLSF(lsf m17.LSF) [46]byte {
	packed := lsf.Pack()
	fe.currLsf = packed
	fe.newLsf = packed
	fe.lsfDirty = false

	body := encodeAndPuncture(fe.enc, packed[:], 488, m17.LSFPuncture, 46)

	var out [46]byte
	copy(out[:], body)
	m17.Interleave(out[:])
	m17.Decorrelate(out[:])
	return out
}

// EncodeStreamFrame builds the 46-byte body of one stream data frame
// carrying payload, with the encoder's running frame number and, when isLast
// is set, the end-of-stream flag (the frame number's bit 15; the counter then
// restarts at 0), embedding the next LICH segment of the current
// (or, at a segment-0 boundary, newly queued) LSF. The LICH segment is
// already Golay-protected by m17.LSFToLICHSegment and is transmitted
// as-is; only the 18-byte frame-number+payload field is convolutionally
// encoded and punctured. Grounded on M17FrameEncoder.hpp::encodeStreamFrame
// and M17StreamFrame.hpp.
func (fe *FrameEncoder) EncodeStreamFrame(payload [16]byte, isLast bool) [46]byte {
	if fe.lichSegment == 0 && fe.lsfDirty {
		fe.currLsf = fe.newLsf
		fe.lsfDirty = false
	}

	lich := m17.LSFToLICHSegment(fe.currLsf, fe.lichSegment)
	fe.lichSegment = (fe.lichSegment + 1) % 6

	var data [18]byte
	frameNum := fe.frameNumber & 0x7FFF
	if isLast {
		frameNum |= 0x8000
	}
	data[0] = byte(frameNum >> 8)
	data[1] = byte(frameNum)
	copy(data[2:], payload[:])

	fe.frameNumber++
	if isLast {
		fe.frameNumber = 0
	}

	// 144 data bits, convolutionally encoded (288 bits) plus a 4-bit flush
	// (8 bits) = 296 coded bits, punctured by m17.DataPuncture to 272 bits
	// (34 bytes).
	punctured := encodeAndPuncture(fe.enc, data[:], 296, m17.DataPuncture, 34)

	var body [46]byte
	copy(body[0:12], lich[:])
	copy(body[12:46], punctured)

	m17.Interleave(body[:])
	m17.Decorrelate(body[:])

	return body
}

// EncodePacketFrame frames (interleaves and decorrelates) a 46-byte packet
// data frame body: 26 bytes of payload record, zero-padded, with the final
// byte at body[25] expected to already carry the last-frame flag and
// payload-length indicator per the external M17 packet spec (spec.md's own
// Open Question on that byte's exact layout). Unlike EncodeLSF/
// EncodeStreamFrame, this does not apply convolutional coding or
// puncturing: spec.md §4 scopes packet frames to "this core only
// frames/defrms", deferring FEC details to the external spec it cites.
func EncodePacketFrame(payload [26]byte) [46]byte {
	var body [46]byte
	copy(body[:], payload[:])

	m17.Interleave(body[:])
	m17.Decorrelate(body[:])
	return body
}

// EncodeEOTFrame returns the fixed end-of-transmission marker body: the
// repeating EOT pattern, uncoded, matching M17FrameEncoder.hpp::getEotFrame.
func EncodeEOTFrame() [46]byte {
	var out [46]byte
	for i := range out {
		if i%2 == 0 {
			out[i] = 0x55
		} else {
			out[i] = 0x5D
		}
	}
	return out
}
