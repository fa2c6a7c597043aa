// Package random provides a cryptographically secure RandomSource.
package random

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Source draws from crypto/rand. The zero value is ready to use.
type Source struct{}

// Intn returns a uniform value in [0, n).
func (Source) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("random: Intn called with n=%d", n))
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken, in
		// which case dice must not be drawn at all.
		panic(fmt.Sprintf("random: crypto source unavailable: %v", err))
	}
	return int(v.Int64())
}
