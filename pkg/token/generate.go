package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
)

// Sizes used by the account flows.
const (
	VerificationCodeDigits = 6
	ResetTokenBytes        = 20 // 160 bits
)

const maxCodeDigits = 18

// NumericCode returns a uniformly distributed decimal code with exactly digits
// digits and no leading zero, e.g. 6 digits gives a value in [100000, 999999].
func NumericCode(digits int) (string, error) {
	if digits < 1 || digits > maxCodeDigits {
		return "", ErrInvalidLength
	}

	lo := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits-1)), nil)
	hi := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	span := new(big.Int).Sub(hi, lo)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", errors.Join(ErrEntropy, err)
	}
	return n.Add(n, lo).String(), nil
}

// Hex returns n bytes of fresh random data, hex encoded (2n characters).
func Hex(n int) (string, error) {
	if n < 1 {
		return "", ErrInvalidLength
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrEntropy, err)
	}
	return hex.EncodeToString(b), nil
}

// VerificationCode returns a 6-digit email verification code.
func VerificationCode() (string, error) {
	return NumericCode(VerificationCodeDigits)
}

// ResetToken returns a 160-bit password reset token as 40 hex characters.
func ResetToken() (string, error) {
	return Hex(ResetTokenBytes)
}
