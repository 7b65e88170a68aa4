package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOTP returns a numeric code of the given length with no leading
// zero, drawn from crypto/rand.
func GenerateOTP(length int) (string, error) {
	if length < 4 || length > 10 {
		return "", fmt.Errorf("otp length must be between 4 and 10")
	}
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	span := new(big.Int).Sub(new(big.Int).Mul(low, big.NewInt(10)), low)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return n.Add(n, low).String(), nil
}

// RandomReference returns n uppercase alphanumerics, used as the suffix of
// order and ticket numbers.
func RandomReference(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	max := big.NewInt(int64(len(referenceCharset)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate reference: %w", err)
		}
		out[i] = referenceCharset[idx.Int64()]
	}
	return string(out), nil
}
