package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"familycheckin/internal/domain"
)

type bcryptPinHasher struct {
	cost int
}

// NewBcryptPinHasher returns a PinHasher backed by bcrypt.
func NewBcryptPinHasher(cost int) domain.PinHasher {
	return &bcryptPinHasher{cost: cost}
}

func (h *bcryptPinHasher) Hash(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash pin: %w", err)
	}
	return string(hash), nil
}

func (h *bcryptPinHasher) Compare(hash, pin string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
}
