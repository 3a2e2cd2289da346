package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// ClientInviteCodeLength is the number of digits in a client invite code.
	ClientInviteCodeLength = 6
	// PractitionerInviteCodeLength is the number of digits in a
	// practitioner registration invite code.
	PractitionerInviteCodeLength = 8
	// PractitionerRefCodeLength is the number of digits in the referral
	// code minted for a newly registered practitioner.
	PractitionerRefCodeLength = 6
)

// GenerateCode returns length uniformly sampled decimal digits, zero-padded.
// The codes are short-lived shared secrets typed by humans, not key material.
func GenerateCode(length int) string {
	if length <= 0 {
		length = ClientInviteCodeLength
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		// fallback: current nanoseconds reduced into range
		n = new(big.Int).Mod(big.NewInt(time.Now().UnixNano()), max)
	}
	return fmt.Sprintf("%0*d", length, n)
}
