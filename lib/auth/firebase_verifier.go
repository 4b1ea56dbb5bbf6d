package auth

import (
	"context"
	"fmt"
	"sync"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/sirupsen/logrus"
)

// IDTokenVerifier is the part of the Firebase auth client used here.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}

// IDTokenVerifierFactory builds the Firebase client, typically by loading the
// service account from the secret store.
type IDTokenVerifierFactory func(ctx context.Context) (IDTokenVerifier, error)

// FirebaseVerifier verifies Firebase ID tokens. The Firebase client is built
// on first use and kept for the life of the process; a failed build is retried
// on the next call.
type FirebaseVerifier struct {
	Factory IDTokenVerifierFactory
	Logger  *logrus.Logger

	mu     sync.Mutex
	client IDTokenVerifier
}

func NewFirebaseVerifier(factory IDTokenVerifierFactory, logger *logrus.Logger) *FirebaseVerifier {
	return &FirebaseVerifier{Factory: factory, Logger: logger}
}

func (v *FirebaseVerifier) verifier(ctx context.Context) (IDTokenVerifier, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.client != nil {
		return v.client, nil
	}

	client, err := v.Factory(ctx)
	if err != nil {
		return nil, err
	}

	v.Logger.WithField("operation", "initializeFirebase").Info("Firebase auth client initialized")
	v.client = client
	return client, nil
}

// Verify delegates to the Firebase SDK. Every failure, including client
// initialization, is reported as ErrInvalidIdentityToken.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (claims Claims, err error) {
	ctx, span := startSpan(ctx, "auth.VerifyFirebaseToken")
	defer func() { finishSpan(span, err) }()

	client, err := v.verifier(ctx)
	if err != nil {
		v.Logger.WithError(err).WithField("operation", "Verify").Error("Failed to initialize Firebase")
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentityToken, err)
	}

	token, err := client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentityToken, err)
	}
	if token.UID == "" {
		return nil, fmt.Errorf("%w: token has no uid", ErrInvalidIdentityToken)
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)

	return &IdentityPlatformClaims{
		UID:         token.UID,
		EmailID:     email,
		DisplayName: name,
	}, nil
}
