package dev_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hearsay/internal/auth/dev"
)

func TestVerifyIDToken_DerivesSubjectFromToken(t *testing.T) {
	v := dev.NewVerifier("google")

	claims, err := v.VerifyIDToken(context.Background(), "abcdefghijklmnopqrstuvwxyz")
	require.NoError(t, err)
	assert.Equal(t, "dev_abcdefghijklmnopqrst", claims.Subject)
	assert.Equal(t, "Dev", claims.FirstName)
	assert.Equal(t, "User", claims.LastName)
	assert.Empty(t, claims.Email)
	assert.Equal(t, "google", v.Provider())
}

func TestVerifyIDToken_ShortAndEmptyTokens(t *testing.T) {
	v := dev.NewVerifier("apple")

	claims, err := v.VerifyIDToken(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "dev_abc", claims.Subject)

	claims, err = v.VerifyIDToken(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "dev_test_user", claims.Subject)
}

func TestVerifyIDToken_Stable(t *testing.T) {
	v := dev.NewVerifier("apple")
	a, _ := v.VerifyIDToken(context.Background(), "same-token")
	b, _ := v.VerifyIDToken(context.Background(), "same-token")
	assert.Equal(t, a.Subject, b.Subject)
}
