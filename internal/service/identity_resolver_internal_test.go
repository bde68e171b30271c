package service

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomStringFrom_DiscardsBiasedBytes(t *testing.T) {
	// 252..255 would map onto "a".."d" a second time; they must be skipped.
	src := bytes.NewReader([]byte{252, 253, 254, 255, 0, 35, 255, 36, 0, 0})

	s, err := randomStringFrom(src, 3)
	require.NoError(t, err)
	assert.Equal(t, "a9a", s)
}

func TestRandomStringFrom_ShortSourceFails(t *testing.T) {
	_, err := randomStringFrom(bytes.NewReader([]byte{255, 255}), 2)
	assert.Error(t, err)
}

func TestRandomStringFrom_UsesWholeAlphabet(t *testing.T) {
	seen := make(map[rune]bool)
	for i := 0; i < 200; i++ {
		s, err := randomStringFrom(rand.Reader, 10)
		require.NoError(t, err)
		require.Len(t, s, 10)
		for _, r := range s {
			seen[r] = true
		}
	}
	assert.Len(t, seen, len(usernameAlphabet))
}
