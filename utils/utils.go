package utils

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 12

// Code alphabet skips easily confused characters (0/O, 1/I/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const EventCodeLength = 4

// NewID returns an opaque unique identifier for events, players and matches.
func NewID() string {
	return uuid.NewString()
}

// NewEventCode generates a 4-character human-shareable code. Collisions are
// possible and handled by the caller against the code mapping.
func NewEventCode() string {
	var b strings.Builder
	for i := 0; i < EventCodeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			// crypto/rand failing means the platform is broken; fall back to
			// a fixed character rather than panic in a request path.
			b.WriteByte(codeAlphabet[0])
			continue
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String()
}

// NormalizeEventCode upper-cases a submitted code for lookup.
func NormalizeEventCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func IsValidEventCode(code string) bool {
	if len(code) != EventCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(codeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
