package testutil

import (
	"fmt"
	"math/rand"
)

// RandomRuc generates a plausible Ecuadorian tax id (13 digits ending in 001)
// from the given pseudo random source.
func RandomRuc(rndm *rand.Rand) string {
	return fmt.Sprintf("%02d%08d001", 1+rndm.Intn(24), rndm.Intn(100_000_000))
}

// RandomString generates a random lowercase string given the pseudo random
// source.
func RandomString(rndm *rand.Rand, length int) string {
	str := make([]rune, length)
	for i := range str {
		str[i] = 'a' + rune(rndm.Intn(26))
	}
	return string(str)
}
