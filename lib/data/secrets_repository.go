package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/sirupsen/logrus"
)

// ErrEmptySecret is returned when a secret exists but has no string value.
var ErrEmptySecret = errors.New("secret has no string value")

type SecretsRepository interface {
	GetSecretString(ctx context.Context, secretID string) (string, error)
}

type SecretsManagerClientInterface interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type SecretsDao struct {
	SecretsManager SecretsManagerClientInterface
	Logger         *logrus.Logger
}

func (dao *SecretsDao) GetSecretString(ctx context.Context, secretID string) (string, error) {
	output, err := dao.SecretsManager.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", secretID, err)
	}

	value := aws.ToString(output.SecretString)
	if value == "" {
		return "", fmt.Errorf("secret %s: %w", secretID, ErrEmptySecret)
	}

	dao.Logger.WithFields(logrus.Fields{
		"operation": "GetSecretString",
		"secret_id": secretID,
	}).Debug("Retrieved secret")

	return value, nil
}
