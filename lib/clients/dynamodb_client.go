package clients

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// NewDynamoDBClient creates a DynamoDB client for the region.
func NewDynamoDBClient(isLocal bool, region string) *dynamodb.Client {
	return dynamodb.NewFromConfig(loadAWSConfig(isLocal, region))
}
