package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func generateRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "failed to generate RSA key")
	return key
}

func newKid() string {
	return uuid.NewString()
}

func signRS256(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	require.NoError(t, err, "failed to sign RS256 token")
	return signed
}

func validClaims(sub string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":              sub,
		"email":            sub + "@example.com",
		"cognito:username": "name-" + sub,
		"iat":              time.Now().Unix(),
		"exp":              time.Now().Add(time.Hour).Unix(),
	}
}

// jwksServer serves a key set and counts requests. status overrides the
// response code when non-zero; body overrides the document when non-nil.
type jwksServer struct {
	*httptest.Server
	hits   atomic.Int32
	status int
	body   []byte
}

func rsaJWK(kid string, pub *rsa.PublicKey) map[string]string {
	return map[string]string{
		"kty": "RSA",
		"kid": kid,
		"alg": "RS256",
		"use": "sig",
		"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
	}
}

func serveJWKS(t *testing.T, keys map[string]*rsa.PublicKey) *jwksServer {
	t.Helper()

	entries := make([]map[string]string, 0, len(keys))
	for kid, pub := range keys {
		entries = append(entries, rsaJWK(kid, pub))
	}
	doc, err := json.Marshal(map[string]any{"keys": entries})
	require.NoError(t, err, "failed to marshal JWKS")

	srv := &jwksServer{body: doc}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.hits.Add(1)
		if srv.status != 0 {
			w.WriteHeader(srv.status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(srv.body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestResolver(url string) *JWKSResolver {
	return NewJWKSResolver(url, resty.New().SetTimeout(2*time.Second), NewKeyCache(), testLogger())
}
