package identity

import (
	"context"
	"crypto/rand"
	"testing"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannerapp/planner-server/internal/errors"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, keyLength)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func mintToken(t *testing.T, keyBytes []byte, mutate func(*paseto.Token)) string {
	t.Helper()

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	require.NoError(t, err)

	now := time.Now()
	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject("user-test1234567890abcdef")
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(15 * time.Minute))
	_ = token.Set("user_id", "user-test1234567890abcdef")
	_ = token.Set("email", "test@example.com")

	if mutate != nil {
		mutate(&token)
	}

	return token.V4Encrypt(key, nil)
}

func TestPasetoVerifier_ValidToken(t *testing.T) {
	keyBytes := testKey(t)
	verifier, err := NewPasetoVerifier(keyBytes)
	require.NoError(t, err)

	claims, err := verifier.Verify(context.Background(), mintToken(t, keyBytes, nil))
	require.NoError(t, err)

	assert.Equal(t, "user-test1234567890abcdef", claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
}

func TestPasetoVerifier_ExpiredToken(t *testing.T) {
	keyBytes := testKey(t)
	verifier, err := NewPasetoVerifier(keyBytes)
	require.NoError(t, err)

	tokenString := mintToken(t, keyBytes, func(token *paseto.Token) {
		token.SetExpiration(time.Now().Add(-time.Minute))
	})

	_, err = verifier.Verify(context.Background(), tokenString)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnauthorized))
}

func TestPasetoVerifier_WrongAudience(t *testing.T) {
	keyBytes := testKey(t)
	verifier, err := NewPasetoVerifier(keyBytes)
	require.NoError(t, err)

	tokenString := mintToken(t, keyBytes, func(token *paseto.Token) {
		token.SetAudience("someone-else")
	})

	_, err = verifier.Verify(context.Background(), tokenString)
	require.Error(t, err)
}

func TestPasetoVerifier_WrongKey(t *testing.T) {
	verifier, err := NewPasetoVerifier(testKey(t))
	require.NoError(t, err)

	tokenString := mintToken(t, testKey(t), nil)

	_, err = verifier.Verify(context.Background(), tokenString)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnauthorized))
}

func TestPasetoVerifier_SubjectFallback(t *testing.T) {
	keyBytes := testKey(t)
	verifier, err := NewPasetoVerifier(keyBytes)
	require.NoError(t, err)

	tokenString := mintToken(t, keyBytes, func(token *paseto.Token) {
		_ = token.Set("user_id", "")
	})

	claims, err := verifier.Verify(context.Background(), tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-test1234567890abcdef", claims.UserID)
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key1, keyLength)

	// Second call loads the same key.
	key2, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}

func TestDecodeKeyHex(t *testing.T) {
	_, err := DecodeKeyHex("too-short")
	require.Error(t, err)

	key, err := DecodeKeyHex("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	assert.Len(t, key, keyLength)
}
