package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// UnambiguousAlphabet omits 0/O and 1/I.
const UnambiguousAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// RandomString draws n characters uniformly from alphabet using crypto/rand.
func RandomString(alphabet string, n int) (string, error) {
	runes := []rune(alphabet)
	max := big.NewInt(int64(len(runes)))
	b := make([]rune, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("random: %w", err)
		}
		b[i] = runes[idx.Int64()]
	}
	return string(b), nil
}
