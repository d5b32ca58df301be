package m17

// LSF is a fully decoded Link Setup Frame: the 30-byte record that
// establishes an M17 session. Grounded on M17LinkSetupFrame.hpp and
// spec.md §3.
type LSF struct {
	Dst  Callsign
	Src  Callsign
	Type StreamType
	Meta [14]byte
	// CRC is recomputed by Pack; a caller decoding from the wire should
	// compare the trailing 2 bytes against CRC16 of the first 28 itself
	// (see VerifyLSF).
}

// Pack serializes lsf into its 30-byte on-wire form, computing and
// appending the CRC-16 over the first 28 bytes.
func (lsf LSF) Pack() [30]byte {
	var out [30]byte
	copy(out[0:6], lsf.Dst[:])
	copy(out[6:12], lsf.Src[:])

	typeVal := lsf.Type.Pack()
	out[12] = byte(typeVal >> 8)
	out[13] = byte(typeVal)

	copy(out[14:28], lsf.Meta[:])

	crc := CRC16(out[0:28])
	out[28] = byte(crc >> 8)
	out[29] = byte(crc)

	return out
}

// UnpackLSF decodes a 30-byte wire record into an LSF, without validating
// the CRC (see VerifyLSF).
func UnpackLSF(raw [30]byte) LSF {
	var lsf LSF
	copy(lsf.Dst[:], raw[0:6])
	copy(lsf.Src[:], raw[6:12])
	lsf.Type = UnpackStreamType(uint16(raw[12])<<8 | uint16(raw[13]))
	copy(lsf.Meta[:], raw[14:28])
	return lsf
}

// VerifyLSF reports whether raw's trailing CRC-16 matches its first 28
// bytes.
func VerifyLSF(raw [30]byte) bool {
	want := uint16(raw[28])<<8 | uint16(raw[29])
	return CRC16(raw[0:28]) == want
}

// LSFToLICHSegment extracts LICH segment idx (0..5) from an already-packed
// 30-byte LSF and Golay(24,12)-encodes it into a 12-byte transmitted
// segment: 5 bytes of LSF payload plus a 1-byte segment number, split into
// two 12-bit halves each independently Golay-encoded.
//
// A free function rather than an LSF method, per spec.md §9's guidance on
// breaking the LICH/LSF/Golay/bit-helper dependency cycle.
func LSFToLICHSegment(raw [30]byte, idx uint8) LICH {
	var segment [6]byte
	copy(segment[0:5], raw[idx*5:idx*5+5])
	segment[5] = idx << 5

	var lich LICH
	a := (uint16(segment[0]) << 4) | (uint16(segment[1]) >> 4)
	b := (uint16(segment[1]&0x0F) << 8) | uint16(segment[2])
	c := (uint16(segment[3]) << 4) | (uint16(segment[4]) >> 4)
	d := (uint16(segment[4]&0x0F) << 8) | uint16(segment[5])

	codeword0 := GolayEncode(a)
	codeword1 := GolayEncode(b)
	codeword2 := GolayEncode(c)
	codeword3 := GolayEncode(d)

	putCodeword24(lich[0:3], codeword0)
	putCodeword24(lich[3:6], codeword1)
	putCodeword24(lich[6:9], codeword2)
	putCodeword24(lich[9:12], codeword3)

	return lich
}

func putCodeword24(out []byte, cw uint32) {
	out[0] = byte(cw >> 16)
	out[1] = byte(cw >> 8)
	out[2] = byte(cw)
}

func getCodeword24(in []byte) uint32 {
	return uint32(in[0])<<16 | uint32(in[1])<<8 | uint32(in[2])
}

// LICHSegmentFromLICH decodes a 12-byte LICH field back into its 6-byte LSF
// segment and segment index, Golay-correcting each of the four 12-bit
// halves independently. ok is false if any half is uncorrectable.
func LICHSegmentFromLICH(lich LICH) (segment [6]byte, idx uint8, ok bool) {
	a, ok0 := GolayDecode(getCodeword24(lich[0:3]))
	b, ok1 := GolayDecode(getCodeword24(lich[3:6]))
	c, ok2 := GolayDecode(getCodeword24(lich[6:9]))
	d, ok3 := GolayDecode(getCodeword24(lich[9:12]))
	if !ok0 || !ok1 || !ok2 || !ok3 {
		return segment, 0, false
	}

	segment[0] = byte(a >> 4)
	segment[1] = byte(a<<4) | byte(b>>8)
	segment[2] = byte(b)
	segment[3] = byte(c >> 4)
	segment[4] = byte(c<<4) | byte(d>>8)
	segment[5] = byte(d)

	idx = segment[5] >> 5
	return segment, idx, true
}
