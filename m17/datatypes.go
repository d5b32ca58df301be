// Package m17 implements the baseband-adjacent coding primitives of the M17
// digital voice/data protocol: callsign and CRC codecs, Golay(24,12),
// the rate-1/2 K=5 convolutional code, puncturing, the quadratic
// interleaver, the decorrelator, and a hard-decision Viterbi decoder.
//
// The package treats frames as plain byte slices/arrays; it has no notion
// of sample rates, sound devices, or UI. Those live in sibling packages.
package m17

// Callsign is a base-40 encoded M17 callsign, packed big-endian.
type Callsign [6]byte

// LICH is a Golay(24,12)-encoded Link Information Channel segment.
type LICH [12]byte

// Payload is a stream data frame's 16-byte payload field.
type Payload [16]byte

// Frame is a full on-air M17 frame: 2-byte syncword + 46 bytes of coded data.
type Frame [48]byte

// Syncword is the 16-bit marker prepended to every on-air frame.
type Syncword [2]byte

// Recognized M17 syncwords, spec.md §3.
var (
	SyncLSF     = Syncword{0x55, 0xF7}
	SyncStream  = Syncword{0xFF, 0x5D}
	SyncPacket  = Syncword{0x75, 0xFF}
	SyncBERT    = Syncword{0xDF, 0x55}
	SyncEOT     = Syncword{0x55, 0x5D}
	PreambleByte byte = 0x77
)

// BroadcastCallsign is the reserved "ALL" callsign (all ones).
var BroadcastCallsign = Callsign{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// InvalidCallsign is the reserved "invalid" callsign (all zeros).
var InvalidCallsign = Callsign{0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

// DataMode is the LSF type field's packet/stream indicator.
type DataMode uint8

const (
	DataModePacket DataMode = 0
	DataModeStream DataMode = 1
)

// DataType is the LSF type field's payload-content indicator.
type DataType uint8

const (
	DataTypeData      DataType = 1
	DataTypeVoice     DataType = 2
	DataTypeVoiceData DataType = 3
)

// EncryptionType is the LSF type field's encryption-scheme indicator.
type EncryptionType uint8

const (
	EncryptionNone      EncryptionType = 0
	EncryptionAES       EncryptionType = 1
	EncryptionScrambler EncryptionType = 2
	EncryptionOther     EncryptionType = 3
)

// MetaKind identifies how the 14-byte LSF meta field should be interpreted.
type MetaKind uint8

const (
	MetaText         MetaKind = 0
	MetaGNSS         MetaKind = 1
	MetaExtdCallsign MetaKind = 2
)

// StreamType is the 16-bit LSF TYPE bitfield, MSB-first on the wire.
type StreamType struct {
	DataMode   DataMode
	DataType   DataType
	EncType    EncryptionType
	EncSubType uint8 // 2 bits
	CAN        uint8 // 4 bits, channel access number
}

// Pack encodes the fields into the 16-bit wire value.
func (t StreamType) Pack() uint16 {
	var v uint16
	v |= uint16(t.DataMode&0x1) << 15
	v |= uint16(t.DataType&0x3) << 13
	v |= uint16(t.EncType&0x3) << 11
	v |= uint16(t.EncSubType&0x3) << 9
	v |= uint16(t.CAN&0xF) << 5
	return v
}

// UnpackStreamType decodes the 16-bit wire value into a StreamType.
func UnpackStreamType(v uint16) StreamType {
	return StreamType{
		DataMode:   DataMode((v >> 15) & 0x1),
		DataType:   DataType((v >> 13) & 0x3),
		EncType:    EncryptionType((v >> 11) & 0x3),
		EncSubType: uint8((v >> 9) & 0x3),
		CAN:        uint8((v >> 5) & 0xF),
	}
}

// ExtendedCallsignMeta is the 14-byte meta field variant carrying a second
// pair of callsigns (spec.md §3).
type ExtendedCallsignMeta struct {
	Call1 Callsign
	Call2 Callsign
}

// GNSSMeta is the 14-byte meta field variant carrying a GNSS fix, spec.md §3.
type GNSSMeta struct {
	DataSrc     uint8
	StationType uint8
	LatDeg      uint8
	LatDec      uint16 // decimal part * 65535
	LonDeg      uint8
	LonDec      uint16
	LatSouth    bool
	LonWest     bool
	AltValid    bool
	SpeedValid  bool
	Altitude    uint16 // feet + 1500
	Bearing     uint16 // degrees
	Speed       uint8  // mph
}

// EncodeGNSSMeta packs a GNSSMeta into the 14-byte meta field layout.
func EncodeGNSSMeta(g GNSSMeta) [14]byte {
	var out [14]byte
	out[0] = g.DataSrc
	out[1] = g.StationType
	out[2] = g.LatDeg
	out[3] = byte(g.LatDec >> 8)
	out[4] = byte(g.LatDec)
	out[5] = g.LonDeg
	out[6] = byte(g.LonDec >> 8)
	out[7] = byte(g.LonDec)

	var flags uint8
	if g.LatSouth {
		flags |= 0x80
	}
	if g.LonWest {
		flags |= 0x40
	}
	if g.AltValid {
		flags |= 0x20
	}
	if g.SpeedValid {
		flags |= 0x10
	}
	out[8] = flags

	out[9] = byte(g.Altitude >> 8)
	out[10] = byte(g.Altitude)
	out[11] = byte(g.Bearing >> 8)
	out[12] = byte(g.Bearing)
	out[13] = g.Speed
	return out
}

// DecodeGNSSMeta unpacks the 14-byte meta field layout into a GNSSMeta.
func DecodeGNSSMeta(raw [14]byte) GNSSMeta {
	flags := raw[8]
	return GNSSMeta{
		DataSrc:     raw[0],
		StationType: raw[1],
		LatDeg:      raw[2],
		LatDec:      uint16(raw[3])<<8 | uint16(raw[4]),
		LonDeg:      raw[5],
		LonDec:      uint16(raw[6])<<8 | uint16(raw[7]),
		LatSouth:    flags&0x80 != 0,
		LonWest:     flags&0x40 != 0,
		AltValid:    flags&0x20 != 0,
		SpeedValid:  flags&0x10 != 0,
		Altitude:    uint16(raw[9])<<8 | uint16(raw[10]),
		Bearing:     uint16(raw[11])<<8 | uint16(raw[12]),
		Speed:       raw[13],
	}
}
