package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dev-kristian/handoverplan-api/internal/constants"
)

func TestGeneratePublicLinkToken(t *testing.T) {
	token, err := GeneratePublicLinkToken()
	require.NoError(t, err)
	require.Len(t, token, constants.PublicLinkTokenLength)

	for _, r := range token {
		require.True(t, strings.ContainsRune(constants.PublicLinkTokenAlphabet, r),
			"unexpected character %q in token %q", r, token)
	}
}

func TestGeneratePublicLinkToken_Varies(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		token, err := GeneratePublicLinkToken()
		require.NoError(t, err)
		seen[token] = true
	}
	require.Greater(t, len(seen), 1, "tokens should not repeat systematically")
}
