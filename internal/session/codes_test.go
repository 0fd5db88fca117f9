package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCodeLength(t *testing.T) {
	assert.Len(t, generateCode(DefaultCodeLength), DefaultCodeLength)
	assert.Len(t, generateCode(10), 10)
}

func TestGenerateCodeAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := generateCode(DefaultCodeLength)
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, ch), "unexpected code character %q", ch)
		}
	}
}

func TestCodeAlphabetExcludesAmbiguousGlyphs(t *testing.T) {
	for _, ch := range "IO01" {
		assert.False(t, strings.ContainsRune(codeAlphabet, ch))
	}
}

func TestRollDieRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		face := RollDie()
		assert.GreaterOrEqual(t, face, 1)
		assert.LessOrEqual(t, face, 6)
	}
}
