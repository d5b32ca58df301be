package m17

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_EncodeDecodeCallsign_ScenarioA(t *testing.T) {
	call, err := EncodeCallsign("AB1CD", true)
	assert.NoError(t, err)
	assert.Equal(t, Callsign{0x00, 0x00, 0x00, 0x9F, 0xDD, 0x51}, call)
	assert.Equal(t, "AB1CD", DecodeCallsign(call))
}

func Test_EncodeDecodeCallsign_Broadcast(t *testing.T) {
	call, err := EncodeCallsign("ALL", true)
	assert.NoError(t, err)
	assert.Equal(t, BroadcastCallsign, call)
	assert.Equal(t, "ALL", DecodeCallsign(call))
}

func Test_DecodeCallsign_Invalid(t *testing.T) {
	assert.Equal(t, "", DecodeCallsign(InvalidCallsign))
}

func Test_EncodeCallsign_TooLong(t *testing.T) {
	_, err := EncodeCallsign("TOOLONGCALL", true)
	assert.ErrorIs(t, err, ErrCallsignTooLong)
}

func Test_EncodeCallsign_StrictRejectsInvalidChar(t *testing.T) {
	_, err := EncodeCallsign("AB!CD", true)
	assert.ErrorIs(t, err, ErrInvalidCallsignChar)
}

func Test_EncodeCallsign_NonStrictAcceptsInvalidChar(t *testing.T) {
	_, err := EncodeCallsign("AB!CD", false)
	assert.NoError(t, err)
}

var validCallsignChars = []rune(" ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-/.")

func Test_EncodeDecodeCallsign_Roundtrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 9).Draw(t, "n")
		runes := make([]rune, n)
		for i := range runes {
			runes[i] = rapid.SampledFrom(validCallsignChars).Draw(t, "ch")
		}
		call := string(runes)
		if call == "ALL" {
			return
		}

		encoded, err := EncodeCallsign(call, true)
		assert.NoError(t, err)

		decoded := DecodeCallsign(encoded)
		// Trailing spaces are insignificant in base-40 encoding (value 0).
		trimmed := call
		for len(trimmed) > 0 && trimmed[len(trimmed)-1] == ' ' {
			trimmed = trimmed[:len(trimmed)-1]
		}
		assert.Equal(t, trimmed, decoded)
	})
}

func Test_CallsignsMatch_Broadcast(t *testing.T) {
	assert.True(t, CallsignsMatch("N0CALL", "ALL"))
	assert.True(t, CallsignsMatch("N0CALL", "INFO"))
	assert.True(t, CallsignsMatch("N0CALL", "ECHO"))
}

func Test_CallsignsMatch_ExactMatch(t *testing.T) {
	assert.True(t, CallsignsMatch("N0CALL", "N0CALL"))
	assert.False(t, CallsignsMatch("N0CALL", "N1CALL"))
}

func Test_CallsignsMatch_PortablePrefixIgnored(t *testing.T) {
	// A leading "<prefix>/" (prefix at most 2 chars) is stripped before
	// comparison, so a portable-prefixed incoming callsign still matches
	// the bare local one.
	assert.True(t, CallsignsMatch("N0CALL", "F/N0CALL"))
	assert.False(t, CallsignsMatch("N0CALL", "F/N1CALL"))
}
