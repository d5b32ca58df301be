package metatext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_ScenarioC_SingleBlock(t *testing.T) {
	mt := New()
	var block Block
	block.Header = 0x11
	copy(block.Text[:], "Hello, M17!  ")

	assert.True(t, mt.AddBlock(block))
	assert.Equal(t, "Hello, M17!", mt.Get())
}

func Test_ScenarioD_TwoBlocks(t *testing.T) {
	mt := New()

	var b1 Block
	b1.Header = 0x31
	copy(b1.Text[:], "This is a lon")
	assert.True(t, mt.AddBlock(b1))

	var b2 Block
	b2.Header = 0x32
	copy(b2.Text[:], "ger message  ")
	assert.True(t, mt.AddBlock(b2))

	assert.Equal(t, "This is a longer message", mt.Get())
}

func Test_Get_StopsAtGap(t *testing.T) {
	mt := New()
	var b1 Block
	b1.Header = Header(4, 0)
	copy(b1.Text[:], "aaaaaaaaaaaaa")
	mt.AddBlock(b1)

	var b3 Block
	b3.Header = Header(4, 2)
	copy(b3.Text[:], "ccccccccccccc")
	mt.AddBlock(b3)

	assert.Equal(t, "aaaaaaaaaaaaa", mt.Get())
}

func Test_Get_EmptyWhenNoBlocks(t *testing.T) {
	mt := New()
	assert.Equal(t, "", mt.Get())
}

func Test_Reset(t *testing.T) {
	mt := NewFromText("Hello, M17!")
	mt.Reset()
	assert.Equal(t, "", mt.Get())
}

func Test_MetaText_Roundtrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, MaxTextLength).Draw(t, "n")
		chars := make([]byte, n)
		for i := range chars {
			chars[i] = byte(rapid.IntRange(33, 126).Draw(t, "ch"))
		}
		text := string(chars)

		tx := NewFromText(text)
		rx := New()
		for i := uint8(0); i < MaxBlocks; i++ {
			block := tx.NextBlock()
			if block.Header == 0 {
				continue
			}
			rx.AddBlock(block)
		}

		assert.Equal(t, strings.TrimRight(text, " "), rx.Get())
	})
}

func Test_NextBlock_CyclesIndefinitely(t *testing.T) {
	mt := NewFromText("abcdefghijklmnopqrstuvwxyz")
	total := (len("abcdefghijklmnopqrstuvwxyz") + BlockLength - 1) / BlockLength

	seen := make([]byte, 0, total*2)
	for i := 0; i < total*2; i++ {
		seen = append(seen, mt.NextBlock().Header)
	}
	assert.Equal(t, seen[:total], seen[total:])
}
