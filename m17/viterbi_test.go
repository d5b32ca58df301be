package m17

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// Test_Viterbi_Decode_CleanChannel checks that decoding an un-corrupted,
// convolutionally encoded (and flushed) block reports zero corrected
// errors, for a range of random payloads.
func Test_Viterbi_Decode_CleanChannel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 1, 18).Draw(t, "payload")

		enc := NewEncoder()
		encoded := enc.Encode(payload)
		flush := enc.Flush()
		encoded = append(encoded, flush)

		dec := NewViterbi()
		out := make([]byte, len(payload))
		errs := dec.Decode(encoded, out)

		assert.Equal(t, uint16(0), errs)
	})
}

func Test_Viterbi_DecodePunctured_CleanChannel(t *testing.T) {
	payload := make([]byte, 18)
	for i := range payload {
		payload[i] = byte(i * 7)
	}

	enc := NewEncoder()
	encoded := enc.Encode(payload)
	flush := enc.Flush()
	encoded = append(encoded, flush)

	punctured := make([]byte, 272/8)
	n := Puncture(encoded, len(encoded)*8, DataPuncture, punctured)
	assert.Equal(t, 272, n)

	dec := NewViterbi()
	out := make([]byte, len(payload))
	errs := dec.DecodePunctured(punctured, out, DataPuncture)

	assert.Equal(t, uint16(0), errs)
}

func Test_Viterbi_Reusable(t *testing.T) {
	dec := NewViterbi()
	enc := NewEncoder()

	for i := 0; i < 3; i++ {
		payload := []byte{byte(i), byte(i + 1), byte(i + 2)}
		enc.Reset()
		encoded := enc.Encode(payload)
		flush := enc.Flush()
		encoded = append(encoded, flush)

		out := make([]byte, len(payload))
		errs := dec.Decode(encoded, out)
		assert.Equal(t, uint16(0), errs)
	}
}
