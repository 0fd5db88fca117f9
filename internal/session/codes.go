package session

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

// codeAlphabet drops glyphs that read ambiguously on a shared screen
// (I, O, 0, 1).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DefaultCodeLength is the join code length used when config omits one.
const DefaultCodeLength = 6

func generateCode(length int) string {
	code := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range code {
		// Same fail-soft policy as dice: the local fallback source is fine
		// for a human-shareable code.
		if n, err := rand.Int(rand.Reader, max); err == nil {
			code[i] = codeAlphabet[n.Int64()]
		} else {
			code[i] = codeAlphabet[mrand.IntN(len(codeAlphabet))]
		}
	}
	return string(code)
}
