package clients

import (
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// NewSecretsManagerClient creates a Secrets Manager client for the region.
func NewSecretsManagerClient(isLocal bool, region string) *secretsmanager.Client {
	return secretsmanager.NewFromConfig(loadAWSConfig(isLocal, region))
}
