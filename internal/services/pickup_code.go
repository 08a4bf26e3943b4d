package services

import (
	"crypto/rand"
	"math/big"
)

const pickupCodeLength = 3

// pickupCodeAlphabet is A-Z without I, L and O, which are easy to misread on a kiosk screen.
var pickupCodeAlphabet = []rune("ABCDEFGHJKMNPQRSTUVWXYZ")

// GeneratePickupCode returns a random code of pickupCodeLength characters drawn uniformly
// from pickupCodeAlphabet. It does not check for collisions.
func GeneratePickupCode() (string, error) {
	b := make([]rune, pickupCodeLength)
	max := big.NewInt(int64(len(pickupCodeAlphabet)))
	for i := 0; i < pickupCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = pickupCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}
