package valueobjects

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubscriberEmail_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "missing at symbol", input: "ursula.domain.com"},
		{name: "missing subject", input: "@domain.com"},
		{name: "missing domain", input: "ursula@"},
		{name: "whitespace only", input: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubscriberEmail(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidEmail)
			assert.True(t, got.IsZero())

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "email", vErr.Field)
			assert.Equal(t, tt.input, vErr.Input)
		})
	}
}

func TestParseSubscriberEmail_ErrorMentionsInput(t *testing.T) {
	_, err := ParseSubscriberEmail("ursula.domain.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ursula.domain.com")
}

func TestParseSubscriberEmail_ValidAddressesRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const lower = "abcdefghijklmnopqrstuvwxyz"
	const localChars = lower + "0123456789_"

	word := func(chars string, min, max int) string {
		n := min + rng.Intn(max-min+1)
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteByte(chars[rng.Intn(len(chars))])
		}
		return b.String()
	}

	fixed := []string{"ursula_le_guin@gmail.com", "first.last@example.org", "a1@sub.domain.io"}
	for _, email := range fixed {
		got, err := ParseSubscriberEmail(email)
		require.NoError(t, err, email)
		assert.Equal(t, email, got.String())
	}

	for i := 0; i < 200; i++ {
		local := word(localChars, 1, 12)
		if rng.Intn(2) == 0 {
			local += "." + word(localChars, 1, 8)
		}
		email := fmt.Sprintf("%s@%s.%s", local, word(lower, 2, 12), word(lower, 2, 6))

		got, err := ParseSubscriberEmail(email)
		require.NoError(t, err, email)
		assert.Equal(t, email, got.String())
	}
}
