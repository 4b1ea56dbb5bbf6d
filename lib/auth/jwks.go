package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

// jwkSet is the body of a JWKS endpoint.
type jwkSet struct {
	Keys []jwk `json:"keys"`
}

// jwk holds the fields needed to rebuild an RSA signing key.
type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSResolver resolves a kid to an RSA public key, fetching the key set on a
// cache miss. Concurrent misses for the same kid share a single fetch.
type JWKSResolver struct {
	URL    string
	Client *resty.Client
	Cache  *KeyCache
	Logger *logrus.Logger

	group singleflight.Group
}

func NewJWKSResolver(url string, client *resty.Client, cache *KeyCache, logger *logrus.Logger) *JWKSResolver {
	return &JWKSResolver{
		URL:    url,
		Client: client,
		Cache:  cache,
		Logger: logger,
	}
}

// Resolve returns the key for kid. It fails with ErrKeyFetchFailed when the key
// set cannot be retrieved or parsed and ErrKeyNotFound when it has no such kid.
// Nothing is cached on failure.
func (r *JWKSResolver) Resolve(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if kid == "" {
		return nil, ErrMissingKeyID
	}

	if key, ok := r.Cache.Get(kid); ok {
		r.Logger.WithFields(logrus.Fields{
			"operation": "Resolve",
			"kid":       kid,
		}).Debug("Key cache hit")
		return key, nil
	}

	v, err, _ := r.group.Do(kid, func() (interface{}, error) {
		if key, ok := r.Cache.Get(kid); ok {
			return key, nil
		}
		key, err := r.fetch(ctx, kid)
		if err != nil {
			return nil, err
		}
		r.Cache.Put(kid, key)
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*rsa.PublicKey), nil
}

func (r *JWKSResolver) fetch(ctx context.Context, kid string) (key *rsa.PublicKey, err error) {
	ctx, span := startSpan(ctx, "auth.FetchJWKS")
	span.SetAttributes(attribute.String("jwks.kid", kid))
	defer func() { finishSpan(span, err) }()

	logger := r.Logger.WithFields(logrus.Fields{
		"operation": "fetchJWKS",
		"kid":       kid,
		"url":       r.URL,
	})
	logger.Info("Fetching JWKS")

	resp, err := r.Client.R().SetContext(ctx).Get(r.URL)
	if err != nil {
		logger.WithError(err).Error("JWKS request failed")
		return nil, fmt.Errorf("%w: %v", ErrKeyFetchFailed, err)
	}
	if resp.IsError() {
		logger.WithField("status", resp.StatusCode()).Error("JWKS endpoint returned an error status")
		return nil, fmt.Errorf("%w: status %d", ErrKeyFetchFailed, resp.StatusCode())
	}

	var set jwkSet
	if err := json.Unmarshal(resp.Body(), &set); err != nil {
		logger.WithError(err).Error("Failed to parse JWKS")
		return nil, fmt.Errorf("%w: %v", ErrKeyFetchFailed, err)
	}

	for _, k := range set.Keys {
		if k.Kid != kid {
			continue
		}
		if k.Kty != "RSA" {
			return nil, fmt.Errorf("%w: key %s has type %q", ErrKeyFetchFailed, kid, k.Kty)
		}
		pub, err := parseRSAPublicKey(k.N, k.E)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeyFetchFailed, err)
		}
		logger.Info("Public key converted and cached")
		return pub, nil
	}

	logger.WithField("keys", len(set.Keys)).Warn("Key id not found in JWKS")
	return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, kid)
}

// parseRSAPublicKey builds an RSA key from base64url modulus and exponent.
func parseRSAPublicKey(nBase64, eBase64 string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode RSA modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(eBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode RSA exponent: %w", err)
	}
	if len(nBytes) == 0 || len(eBytes) == 0 {
		return nil, fmt.Errorf("empty RSA modulus or exponent")
	}

	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() || e.Int64() < 2 || e.Int64() > 1<<31-1 {
		return nil, fmt.Errorf("invalid RSA exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(e.Int64()),
	}, nil
}
