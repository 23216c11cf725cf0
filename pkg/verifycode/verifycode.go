package verifycode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	groups      = 4
	groupLength = 5
	alphabet    = "abcdefghijklmnopqrstuvwxyz"
)

// Generate returns a new verification code in the form
// "abcde-fghij-klmno-pqrst" using a cryptographically secure source.
//
// It panics if the entropy source is unavailable - a process that cannot
// read random bytes must not issue login challenges.
func Generate() string {
	var b strings.Builder
	b.Grow(groups*groupLength + groups - 1)

	max := big.NewInt(int64(len(alphabet)))
	for g := 0; g < groups; g++ {
		if g > 0 {
			b.WriteByte('-')
		}
		for i := 0; i < groupLength; i++ {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				panic(fmt.Sprintf("verifycode: entropy source unavailable: %v", err))
			}
			b.WriteByte(alphabet[n.Int64()])
		}
	}

	return b.String()
}
