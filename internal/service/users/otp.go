package users

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// newOTP генерирует шестизначный код восстановления
func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
