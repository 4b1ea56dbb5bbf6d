package auth

import (
	"context"
	"crypto/rsa"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, keys map[string]*rsa.PublicKey) (*JWTVerifier, *jwksServer) {
	t.Helper()
	srv := serveJWKS(t, keys)
	return &JWTVerifier{Keys: newTestResolver(srv.URL), Logger: testLogger()}, srv
}

func TestVerify_ValidToken(t *testing.T) {
	key := generateRSAKey(t)
	kid := newKid()
	verifier, _ := newTestVerifier(t, map[string]*rsa.PublicKey{kid: &key.PublicKey})
	claims := validClaims("user-1")
	claims["scope"] = "posts.read posts.write"

	result, err := verifier.Verify(context.Background(), signRS256(t, key, kid, claims))

	require.NoError(t, err)
	assert.Equal(t, "user-1", result.Subject())
	assert.Equal(t, "user-1@example.com", result.Email())
	assert.Equal(t, "name-user-1", result.Username())
	assert.Equal(t, "posts.read posts.write", result.Scope())
	assert.Equal(t, ProviderCognito, result.Provider())
}

func TestVerify_UsernameFallback(t *testing.T) {
	key := generateRSAKey(t)
	kid := newKid()
	verifier, _ := newTestVerifier(t, map[string]*rsa.PublicKey{kid: &key.PublicKey})
	claims := validClaims("user-1")
	delete(claims, "cognito:username")
	claims["username"] = "access-token-user"

	result, err := verifier.Verify(context.Background(), signRS256(t, key, kid, claims))

	require.NoError(t, err)
	assert.Equal(t, "access-token-user", result.Username())
}

func TestVerify_SecondCallUsesCache(t *testing.T) {
	key := generateRSAKey(t)
	kid := newKid()
	verifier, srv := newTestVerifier(t, map[string]*rsa.PublicKey{kid: &key.PublicKey})

	_, err := verifier.Verify(context.Background(), signRS256(t, key, kid, validClaims("user-1")))
	require.NoError(t, err)
	_, err = verifier.Verify(context.Background(), signRS256(t, key, kid, validClaims("user-2")))
	require.NoError(t, err)

	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	key := generateRSAKey(t)
	kid := newKid()
	verifier, srv := newTestVerifier(t, map[string]*rsa.PublicKey{kid: &key.PublicKey})

	hs := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("user-1"))
	hs.Header["kid"] = kid
	hsToken, err := hs.SignedString([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	ps := jwt.NewWithClaims(jwt.SigningMethodPS256, validClaims("user-1"))
	ps.Header["kid"] = kid
	psToken, err := ps.SignedString(key)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims("user-1"))
	none.Header["kid"] = kid
	noneToken, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{"HS256": hsToken, "PS256": psToken, "none": noneToken} {
		_, err := verifier.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrSignatureInvalid, name)
	}
	assert.Equal(t, int32(0), srv.hits.Load())
}

func TestVerify_UnknownKid(t *testing.T) {
	key := generateRSAKey(t)
	verifier, _ := newTestVerifier(t, map[string]*rsa.PublicKey{newKid(): &key.PublicKey})

	_, err := verifier.Verify(context.Background(), signRS256(t, key, "not-published", validClaims("user-1")))

	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Equal(t, 0, verifier.Keys.(*JWKSResolver).Cache.Len())
}

func TestVerify_MissingKid(t *testing.T) {
	key := generateRSAKey(t)
	verifier, srv := newTestVerifier(t, map[string]*rsa.PublicKey{newKid(): &key.PublicKey})

	_, err := verifier.Verify(context.Background(), signRS256(t, key, "", validClaims("user-1")))

	assert.ErrorIs(t, err, ErrMissingKeyID)
	assert.Equal(t, int32(0), srv.hits.Load())
}

func TestVerify_Malformed(t *testing.T) {
	verifier, _ := newTestVerifier(t, nil)

	for _, token := range []string{"", "not-a-jwt", "a.b", "a.b.c", "e30.e30"} {
		_, err := verifier.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrMalformedToken, token)
	}
}

func TestVerify_WrongSigningKey(t *testing.T) {
	published := generateRSAKey(t)
	attacker := generateRSAKey(t)
	kid := newKid()
	verifier, _ := newTestVerifier(t, map[string]*rsa.PublicKey{kid: &published.PublicKey})

	_, err := verifier.Verify(context.Background(), signRS256(t, attacker, kid, validClaims("user-1")))

	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerify_Expired(t *testing.T) {
	key := generateRSAKey(t)
	kid := newKid()
	verifier, _ := newTestVerifier(t, map[string]*rsa.PublicKey{kid: &key.PublicKey})
	claims := validClaims("user-1")
	claims["exp"] = time.Now().Add(-time.Second).Unix()

	_, err := verifier.Verify(context.Background(), signRS256(t, key, kid, claims))

	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerify_ClockSkewTolerance(t *testing.T) {
	key := generateRSAKey(t)
	kid := newKid()
	verifier, _ := newTestVerifier(t, map[string]*rsa.PublicKey{kid: &key.PublicKey})
	verifier.ClockSkew = time.Minute
	claims := validClaims("user-1")
	claims["exp"] = time.Now().Add(-10 * time.Second).Unix()

	_, err := verifier.Verify(context.Background(), signRS256(t, key, kid, claims))

	assert.NoError(t, err)
}

func TestVerify_NotYetValid(t *testing.T) {
	key := generateRSAKey(t)
	kid := newKid()
	verifier, _ := newTestVerifier(t, map[string]*rsa.PublicKey{kid: &key.PublicKey})
	claims := validClaims("user-1")
	claims["nbf"] = time.Now().Add(time.Hour).Unix()

	_, err := verifier.Verify(context.Background(), signRS256(t, key, kid, claims))

	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerify_MissingExpiration(t *testing.T) {
	key := generateRSAKey(t)
	kid := newKid()
	verifier, _ := newTestVerifier(t, map[string]*rsa.PublicKey{kid: &key.PublicKey})
	claims := validClaims("user-1")
	delete(claims, "exp")

	_, err := verifier.Verify(context.Background(), signRS256(t, key, kid, claims))

	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerify_Issuer(t *testing.T) {
	key := generateRSAKey(t)
	kid := newKid()
	verifier, _ := newTestVerifier(t, map[string]*rsa.PublicKey{kid: &key.PublicKey})
	verifier.Issuer = "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_pool"

	claims := validClaims("user-1")
	claims["iss"] = verifier.Issuer
	_, err := verifier.Verify(context.Background(), signRS256(t, key, kid, claims))
	assert.NoError(t, err)

	claims["iss"] = "https://evil.example.com"
	_, err = verifier.Verify(context.Background(), signRS256(t, key, kid, claims))
	assert.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerify_KeyFetchFailure(t *testing.T) {
	key := generateRSAKey(t)
	kid := newKid()
	verifier, srv := newTestVerifier(t, map[string]*rsa.PublicKey{kid: &key.PublicKey})
	srv.status = http.StatusInternalServerError

	_, err := verifier.Verify(context.Background(), signRS256(t, key, kid, validClaims("user-1")))

	assert.ErrorIs(t, err, ErrKeyFetchFailed)
}
