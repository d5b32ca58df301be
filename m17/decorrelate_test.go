package m17

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_Decorrelate_IsSelfInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 46).Draw(t, "n")
		data := make([]byte, n)
		for i := range data {
			data[i] = rapid.Byte().Draw(t, "b")
		}
		original := make([]byte, n)
		copy(original, data)

		Decorrelate(data)
		Decorrelate(data)

		assert.Equal(t, original, data)
	})
}

func Test_Decorrelate_MatchesFixedSequence(t *testing.T) {
	data := make([]byte, 46)
	Decorrelate(data)
	assert.Equal(t, decorrelatorSequence[:], data)
}
