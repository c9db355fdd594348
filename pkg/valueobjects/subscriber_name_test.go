package valueobjects

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubscriberName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "a valid name is parsed", input: "Ursula Le Guin", want: "Ursula Le Guin"},
		{name: "surrounding whitespace is trimmed", input: "  le guin \t\n", want: "le guin"},
		{name: "256 grapheme long name is valid", input: strings.Repeat("ё", 256), want: strings.Repeat("ё", 256)},
		{name: "combining marks count as one grapheme", input: strings.Repeat("e\u0301", 256), want: strings.Repeat("e\u0301", 256)},
		{name: "empty string is rejected", input: "", wantErr: ErrNameEmpty},
		{name: "whitespace only is rejected", input: " \t \n ", wantErr: ErrNameEmpty},
		{name: "name longer than 256 graphemes is rejected", input: strings.Repeat("a", 257), wantErr: ErrNameTooLong},
		{name: "html is rejected", input: "<script>alert(1)</script>", wantErr: ErrNameForbiddenCharacter},
		{name: "backslash is rejected", input: `le\guin`, wantErr: ErrNameForbiddenCharacter},
		{name: "invalid utf-8 is rejected", input: "le\xffguin", wantErr: ErrNameInvalidEncoding},
		{name: "truncated multibyte sequence is rejected", input: "le guin\xd0", wantErr: ErrNameInvalidEncoding},
		{name: "nul byte is rejected", input: "le\x00guin", wantErr: ErrNameInvalidEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubscriberName(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.True(t, got.IsZero())

				var vErr *ValidationError
				require.True(t, errors.As(err, &vErr))
				assert.Equal(t, "name", vErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseSubscriberName_EveryForbiddenCharacterIsRejected(t *testing.T) {
	for _, r := range forbiddenNameCharacters {
		_, err := ParseSubscriberName("le" + string(r) + "guin")
		assert.ErrorIs(t, err, ErrNameForbiddenCharacter, "character %q", r)
	}
}

func TestParseSubscriberName_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 -'.,éøñü"
	letters := []rune(alphabet)

	randomName := func(length int) string {
		var b strings.Builder
		b.WriteRune('x')
		for i := 1; i < length; i++ {
			b.WriteRune(letters[rng.Intn(len(letters))])
		}
		return b.String()
	}

	t.Run("names without forbidden characters within length survive trimming", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			raw := randomName(1 + rng.Intn(MaxSubscriberNameLength))
			got, err := ParseSubscriberName("  " + raw + "\t")
			require.NoError(t, err, "input %q", raw)
			assert.Equal(t, strings.TrimSpace(raw), got.String())
		}
	})

	t.Run("names with a forbidden character are rejected", func(t *testing.T) {
		forbidden := []rune(forbiddenNameCharacters)
		for i := 0; i < 200; i++ {
			raw := []rune(randomName(1 + rng.Intn(100)))
			pos := rng.Intn(len(raw))
			raw[pos] = forbidden[rng.Intn(len(forbidden))]
			_, err := ParseSubscriberName("x" + string(raw))
			assert.ErrorIs(t, err, ErrNameForbiddenCharacter, "input %q", string(raw))
		}
	})

	t.Run("whitespace only names are empty", func(t *testing.T) {
		spaces := []rune{' ', '\t', '\n', '\r', '\v', '\f', ' ', ' '}
		for i := 0; i < 100; i++ {
			var b strings.Builder
			for j := 0; j < rng.Intn(20); j++ {
				b.WriteRune(spaces[rng.Intn(len(spaces))])
			}
			_, err := ParseSubscriberName(b.String())
			assert.ErrorIs(t, err, ErrNameEmpty)
		}
	})

	t.Run("names longer than the limit are too long", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			raw := strings.Repeat("a", MaxSubscriberNameLength+1+rng.Intn(500))
			_, err := ParseSubscriberName(raw)
			assert.ErrorIs(t, err, ErrNameTooLong)
		}
	})
}
