package auth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const signingAlgorithm = "RS256"

// KeyResolver returns the verification key for a kid.
type KeyResolver interface {
	Resolve(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// JWTVerifier verifies RS256 Cognito tokens against keys from a KeyResolver.
type JWTVerifier struct {
	Keys   KeyResolver
	Logger *logrus.Logger

	// Issuer is enforced when set.
	Issuer string
	// ClockSkew is the leeway applied to exp and nbf. Zero is strict.
	ClockSkew time.Duration
}

// Verify checks the token and returns its claims. Any algorithm other than
// RS256 is rejected before a key is looked up.
func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (claims Claims, err error) {
	ctx, span := startSpan(ctx, "auth.VerifyJWT")
	defer func() { finishSpan(span, err) }()

	unverified, _, err := jwt.NewParser().ParseUnverified(tokenString, &cognitoTokenClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	alg, _ := unverified.Header["alg"].(string)
	if alg != signingAlgorithm {
		return nil, fmt.Errorf("%w: unexpected signing algorithm %q", ErrSignatureInvalid, alg)
	}

	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, ErrMissingKeyID
	}
	span.SetAttributes(attribute.String("jwt.kid", kid))

	key, err := v.Keys.Resolve(ctx, kid)
	if err != nil {
		return nil, err
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{signingAlgorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.ClockSkew),
	}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}

	parsed := &cognitoTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, opts...)
	if err != nil || !token.Valid {
		v.Logger.WithFields(logrus.Fields{
			"operation": "Verify",
			"kid":       kid,
		}).WithError(err).Warn("Token verification failed")
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	if parsed.Subject == "" {
		return nil, fmt.Errorf("%w: token has no sub", ErrSignatureInvalid)
	}

	return newJWTClaims(parsed), nil
}
