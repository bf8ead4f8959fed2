package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/dev-kristian/handoverplan-api/internal/constants"
)

// GeneratePublicLinkToken generates a random 8-character token from [a-z0-9].
// Uniqueness is not guaranteed here; the caller relies on the unique index on
// plans.public_link_token and retries on collision.
func GeneratePublicLinkToken() (string, error) {
	alphabet := constants.PublicLinkTokenAlphabet
	max := big.NewInt(int64(len(alphabet)))

	token := make([]byte, constants.PublicLinkTokenLength)
	for i := range token {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random token: %w", err)
		}
		token[i] = alphabet[n.Int64()]
	}

	return string(token), nil
}
