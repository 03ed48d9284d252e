package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// otpSpan covers the 6-digit code space 100000..999999.
const (
	otpMin  = 100000
	otpSpan = 900000
)

// GenerateOTP returns a 6-digit numeric one-time code and its expiry.
// Codes are drawn from a cryptographically secure source; uniqueness
// across accounts is not required since validity is scoped per account
// and per purpose.
func GenerateOTP(ttl time.Duration) (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", time.Time{}, err
	}
	code := n.Int64() + otpMin
	return strconv.FormatInt(code, 10), time.Now().UTC().Add(ttl), nil
}
