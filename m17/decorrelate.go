package m17

// decorrelatorSequence is the fixed XOR sequence used for M17 data
// randomisation. Verbatim from M17Decorrelator.hpp::sequence.
var decorrelatorSequence = [46]byte{
	0xd6, 0xb5, 0xe2, 0x30, 0x82, 0xFF, 0x84, 0x62,
	0xba, 0x4e, 0x96, 0x90, 0xd8, 0x98, 0xdd, 0x5d,
	0x0c, 0xc8, 0x52, 0x43, 0x91, 0x1d, 0xf8, 0x6e,
	0x68, 0x2F, 0x35, 0xda, 0x14, 0xea, 0xcd, 0x76,
	0x19, 0x8d, 0xd5, 0x80, 0xd1, 0x33, 0x87, 0x13,
	0x57, 0x18, 0x2d, 0x29, 0x78, 0xc3,
}

// Decorrelate applies the M17 decorrelation scheme to data in place. data
// must be no longer than the 46-byte decorrelator sequence. Decorrelation
// is its own inverse (XOR), so the same function applies and removes it.
//
// Grounded on M17Decorrelator.hpp::decorrelate.
func Decorrelate(data []byte) {
	for i := range data {
		data[i] ^= decorrelatorSequence[i]
	}
}
