package account

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var otpRange = big.NewInt(900000)

// newOTP returns six random digits, never starting with zero.
func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpRange)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
