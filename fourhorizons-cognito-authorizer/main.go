package main

import (
	"context"

	"fourhorizons/lib/auth"
	"fourhorizons/lib/clients"
	"fourhorizons/lib/config"
	"fourhorizons/lib/models"
	"fourhorizons/lib/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

// Global variables for Lambda cold start optimization
var (
	logger     *logrus.Logger
	cfg        *config.Config
	keyCache   *auth.KeyCache
	authorizer *auth.Authorizer
)

func LambdaHandler(ctx context.Context, event models.AuthorizerEvent) (events.APIGatewayCustomAuthorizerResponse, error) {
	return authorizer.Handle(ctx, event)
}

func main() {
	lambda.Start(LambdaHandler)
}

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger = util.NewLogger(cfg.LogLevel, cfg.IsLocal)

	jwksURL := cfg.JWKSEndpoint()
	if jwksURL == "" {
		logger.Fatal("USER_POOL_ID or JWKS_URL must be set")
	}

	mode, err := auth.ParsePolicyMode(cfg.PolicyMode)
	if err != nil {
		logger.WithError(err).Fatal("Invalid policy mode")
	}

	// The key cache lives as long as the execution environment.
	keyCache = auth.NewKeyCache()
	resolver := auth.NewJWKSResolver(jwksURL, clients.NewHTTPClient(cfg.JWKSTimeout), keyCache, logger)

	authorizer = &auth.Authorizer{
		Verifier: &auth.JWTVerifier{
			Keys:      resolver,
			Logger:    logger,
			Issuer:    cfg.Issuer(),
			ClockSkew: cfg.ClockSkew,
		},
		Policy: &auth.PolicyGenerator{
			Mode:    mode,
			Actions: cfg.Actions(),
		},
		Logger: logger,
	}

	logger.WithFields(logrus.Fields{
		"operation":   "init",
		"jwks_url":    jwksURL,
		"policy_mode": mode,
	}).Info("Cognito authorizer initialized")
}
