package auth

import (
	"context"
	"errors"
	"strings"

	"fourhorizons/lib/constants"
	"fourhorizons/lib/models"
	"fourhorizons/lib/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// ErrUnauthorized is the only error returned to API Gateway. Its message must
// be exactly "Unauthorized" for the gateway to answer 401.
var ErrUnauthorized = errors.New(constants.UNAUTHORIZED_MESSAGE)

// TokenVerifier verifies a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// authState is the position of a request in the authorization flow.
type authState string

const (
	stateUnauthenticated authState = "unauthenticated"
	stateTokenExtracted  authState = "token_extracted"
	stateVerified        authState = "verified"
	statePolicyIssued    authState = "policy_issued"
	stateRejected        authState = "rejected"
)

// Authorizer is the custom authorizer entry point.
type Authorizer struct {
	Verifier TokenVerifier
	Policy   *PolicyGenerator
	Logger   *logrus.Logger
}

// Handle authorizes a TOKEN or REQUEST authorizer event. On any failure it
// returns ErrUnauthorized and the cause is only logged.
func (a *Authorizer) Handle(ctx context.Context, event models.AuthorizerEvent) (events.APIGatewayCustomAuthorizerResponse, error) {
	logger := a.Logger.WithFields(logrus.Fields{
		"operation":  "Authorize",
		"method_arn": event.MethodArn,
		"type":       event.Type,
	})
	logger.WithField("state", stateUnauthenticated).Debug("Authorization request received")

	response, err := a.authorize(ctx, event, logger)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"state":   stateRejected,
			"failure": FailureKind(err),
			"error":   err.Error(),
		}).Warn("Authorization rejected")
		return events.APIGatewayCustomAuthorizerResponse{}, ErrUnauthorized
	}

	logger.WithFields(logrus.Fields{
		"state":        statePolicyIssued,
		"principal_id": response.PrincipalID,
	}).Info("Policy issued")
	return response, nil
}

func (a *Authorizer) authorize(ctx context.Context, event models.AuthorizerEvent, logger *logrus.Entry) (events.APIGatewayCustomAuthorizerResponse, error) {
	token, err := BearerToken(authorizationValue(event))
	if err != nil {
		return events.APIGatewayCustomAuthorizerResponse{}, err
	}
	logger.WithField("state", stateTokenExtracted).Debug("Bearer token extracted")

	claims, err := a.Verifier.Verify(ctx, token)
	if err != nil {
		return events.APIGatewayCustomAuthorizerResponse{}, err
	}

	principalID := util.DefaultString(claims.Subject(), constants.DEFAULT_PRINCIPAL)
	logger.WithFields(logrus.Fields{
		"state":        stateVerified,
		"principal_id": principalID,
		"provider":     claims.Provider(),
	}).Debug("Token verified")

	authContext, err := EncodeContext(principalID, claims)
	if err != nil {
		return events.APIGatewayCustomAuthorizerResponse{}, err
	}

	return a.Policy.Generate(principalID, Allow, event.MethodArn, authContext)
}

// authorizationValue returns the TOKEN authorizer value, or the Authorization
// header of a REQUEST authorizer.
func authorizationValue(event models.AuthorizerEvent) string {
	if event.AuthorizationToken != "" {
		return event.AuthorizationToken
	}
	for name, value := range event.Headers {
		if strings.EqualFold(name, "Authorization") {
			return value
		}
	}
	return ""
}

// BearerToken extracts the token from a "Bearer <token>" value.
func BearerToken(value string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(value), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
