package common

import (
	"crypto/rand"
	"math/big"
)

// SecureRandInt returns a uniform random int in [0, max)
func SecureRandInt(max int) int {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		// if err not nil, it will panic, this is a low level error
		// program should not continue
		panic(err)
	}

	return ClampInt64ToInt(nBig.Int64())
}

// RandomBytes returns size random bytes
func RandomBytes(size int) []byte {
	b := make([]byte, size)

	if _, err := rand.Read(b); err != nil {
		panic(err)
	}

	return b
}
