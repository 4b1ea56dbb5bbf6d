package clients

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

const localstackEndpoint = "http://docker.for.mac.host.internal:4566"

// loadAWSConfig loads the default AWS configuration, pointing at LocalStack
// when running locally.
func loadAWSConfig(isLocal bool, region string) aws.Config {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		panic("failed to load AWS configuration: " + err.Error())
	}

	if isLocal {
		cfg.BaseEndpoint = aws.String(localstackEndpoint)
	}

	return cfg
}
