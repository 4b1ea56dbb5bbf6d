package main

import (
	"context"
	"fmt"

	"fourhorizons/lib/auth"
	"fourhorizons/lib/clients"
	"fourhorizons/lib/config"
	"fourhorizons/lib/data"
	"fourhorizons/lib/models"
	"fourhorizons/lib/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

// Global variables for Lambda cold start optimization
var (
	logger            *logrus.Logger
	cfg               *config.Config
	secretsRepository data.SecretsRepository
	authorizer        *auth.Authorizer
)

func LambdaHandler(ctx context.Context, event models.AuthorizerEvent) (events.APIGatewayCustomAuthorizerResponse, error) {
	return authorizer.Handle(ctx, event)
}

// newVerifierFactory loads the service account from Secrets Manager and
// builds the Firebase auth client from it.
func newVerifierFactory(secrets data.SecretsRepository, secretID string) auth.IDTokenVerifierFactory {
	return func(ctx context.Context) (auth.IDTokenVerifier, error) {
		serviceAccount, err := secrets.GetSecretString(ctx, secretID)
		if err != nil {
			return nil, fmt.Errorf("failed to load firebase service account: %w", err)
		}

		client, err := clients.NewFirebaseAuthClient(ctx, []byte(serviceAccount))
		if err != nil {
			return nil, err
		}
		return client, nil
	}
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

	mode, err := auth.ParsePolicyMode(cfg.PolicyMode)
	if err != nil {
		logger.WithError(err).Fatal("Invalid policy mode")
	}

	secretsRepository = &data.SecretsDao{
		SecretsManager: clients.NewSecretsManagerClient(cfg.IsLocal, cfg.Region),
		Logger:         logger,
	}

	// Firebase itself is initialized on the first request.
	authorizer = &auth.Authorizer{
		Verifier: auth.NewFirebaseVerifier(newVerifierFactory(secretsRepository, cfg.FirebaseSecretID), logger),
		Policy: &auth.PolicyGenerator{
			Mode:    mode,
			Actions: cfg.Actions(),
		},
		Logger: logger,
	}
}
