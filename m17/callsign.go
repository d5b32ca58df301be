package m17

import (
	"errors"
	"strings"
)

// ErrInvalidCallsignChar is returned by EncodeCallsign in strict mode when
// the input contains a character outside the base-40 alphabet.
var ErrInvalidCallsignChar = errors.New("m17: invalid character in callsign")

// ErrCallsignTooLong is returned by EncodeCallsign for input over 9 characters.
var ErrCallsignTooLong = errors.New("m17: callsign longer than 9 characters")

const callsignAlphabet = " ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-/."

// EncodeCallsign encodes callsign into its base-40 packed form. Encoding
// proceeds right-to-left (lowest-order character first) into a 48-bit
// accumulator, which is then written out big-endian. "ALL" maps to the
// broadcast sentinel. In strict mode, a character outside the base-40
// alphabet is an error; otherwise it is treated as if it contributed value
// zero, matching the original's non-strict fallthrough.
//
// Grounded on Callsign.cpp::encode_callsign.
func EncodeCallsign(callsign string, strict bool) (Callsign, error) {
	if len(callsign) > 9 {
		return Callsign{}, ErrCallsignTooLong
	}
	if callsign == "ALL" {
		return BroadcastCallsign, nil
	}

	var encoded uint64
	for i := len(callsign) - 1; i >= 0; i-- {
		c := callsign[i]
		encoded *= 40

		switch {
		case c >= 'A' && c <= 'Z':
			encoded += uint64(c-'A') + 1
		case c >= '0' && c <= '9':
			encoded += uint64(c-'0') + 27
		case c == '-':
			encoded += 37
		case c == '/':
			encoded += 38
		case c == '.':
			encoded += 39
		default:
			if strict {
				return Callsign{}, ErrInvalidCallsignChar
			}
		}
	}

	var out Callsign
	for i := 5; i >= 0; i-- {
		out[i] = byte(encoded)
		encoded >>= 8
	}
	return out, nil
}

// DecodeCallsign decodes a packed base-40 callsign back to text. The
// broadcast and invalid sentinels are decoded to "ALL" and "", respectively.
//
// Grounded on Callsign.cpp::decode_callsign.
func DecodeCallsign(call Callsign) string {
	if call == BroadcastCallsign {
		return "ALL"
	}
	if call == InvalidCallsign {
		return ""
	}

	var encoded uint64
	for _, b := range call {
		encoded = (encoded << 8) | uint64(b)
	}

	var sb strings.Builder
	for encoded > 0 {
		sb.WriteByte(callsignAlphabet[encoded%40])
		encoded /= 40
	}
	return sb.String()
}

// CallsignsMatch reports whether incoming matches local, per M17's relaxed
// comparison rule: the broadcast callsign and the reserved names "INFO" and
// "ECHO" match anything, and on either side a short prefix ending in "/"
// ("/" at index 0..2, so at most 2 characters before it) is stripped before
// comparing the remainder.
//
// Grounded on Callsign.cpp::compareCallsigns. NOTE: only incoming is checked
// against the universally-matching names, matching the original's own
// caller-facing comment ("since only incomingCs is checked for special
// values, the second arg must be the incoming station").
func CallsignsMatch(local, incoming string) bool {
	if incoming == "ALL" || incoming == "INFO" || incoming == "ECHO" {
		return true
	}

	truncatedLocal := truncateAtSlash(local)
	truncatedIncoming := truncateAtSlash(incoming)

	return truncatedLocal == truncatedIncoming
}

func truncateAtSlash(cs string) string {
	pos := strings.IndexByte(cs, '/')
	if pos >= 0 && pos <= 2 {
		return cs[pos+1:]
	}
	return cs
}
