package session

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"

	"github.com/rs/zerolog/log"
)

var six = big.NewInt(6)

// RollDie draws a uniformly random face in 1..6 from the system randomness
// source, falling back to the local pseudo-random generator when the source
// errors. The roll itself never fails.
func RollDie() int {
	n, err := rand.Int(rand.Reader, six)
	if err != nil {
		log.Warn().Err(err).Msg("crypto randomness unavailable, using local fallback")
		return mrand.IntN(6) + 1
	}
	return int(n.Int64()) + 1
}
