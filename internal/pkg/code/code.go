package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// DefaultLength is the length of an email verification code.
const DefaultLength = 6

var ten = big.NewInt(10)

// Generator produces verification codes.
type Generator interface {
	Generate() (string, error)
}

// Digits generates fixed-length numeric codes from crypto/rand.
type Digits struct {
	Length int
}

func (d Digits) Generate() (string, error) {
	n := d.Length
	if n <= 0 {
		n = DefaultLength
	}
	return Generate(n)
}

// Generate returns length digits, each drawn independently and uniformly from 0-9.
// A failing entropy source is returned as an error; there is no fallback value.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate verification code: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
