package service

import (
	"crypto/rand"
	"math/big"
)

const inviteAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// InviteCodeGenerator draws candidate class invite codes.
type InviteCodeGenerator interface {
	Generate() (string, error)
}

// InviteCodeGeneratorFunc adapts a function to InviteCodeGenerator.
type InviteCodeGeneratorFunc func() (string, error)

// Generate implements InviteCodeGenerator.
func (f InviteCodeGeneratorFunc) Generate() (string, error) {
	return f()
}

// RandomInviteCodes draws lowercase base36 codes of a fixed length from crypto/rand.
type RandomInviteCodes struct {
	Length int
}

// Generate implements InviteCodeGenerator.
func (g RandomInviteCodes) Generate() (string, error) {
	length := g.Length
	if length <= 0 {
		length = 7
	}
	max := big.NewInt(int64(len(inviteAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = inviteAlphabet[n.Int64()]
	}
	return string(buf), nil
}
