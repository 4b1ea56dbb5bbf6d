package data

import (
	"context"
	"fmt"

	"fourhorizons/lib/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

// PreferencesRepository defines the data operations for user preferences
type PreferencesRepository interface {
	GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error)
	PutPreferences(ctx context.Context, preferences *models.UserPreferences) error
}

type PreferencesDao struct {
	DynamoDB  DynamoDBClientInterface
	TableName string
	Logger    *logrus.Logger
}

func preferencesSK(userID string) string {
	return "PREFERENCES#" + userID
}

func (dao *PreferencesDao) GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	output, err := dao.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(dao.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: preferencesSK(userID)},
		},
	})
	if err != nil {
		dao.Logger.WithError(err).WithField("operation", "GetPreferences").Error("Failed to get user preferences")
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	if len(output.Item) == 0 {
		return nil, ErrNotFound
	}

	var preferences models.UserPreferences
	if err := attributevalue.UnmarshalMap(output.Item, &preferences); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}

	return &preferences, nil
}

func (dao *PreferencesDao) PutPreferences(ctx context.Context, preferences *models.UserPreferences) error {
	preferences.PK = userPK(preferences.UserID)
	preferences.SK = preferencesSK(preferences.UserID)

	item, err := attributevalue.MarshalMap(preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	_, err = dao.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(dao.TableName),
		Item:      item,
	})
	if err != nil {
		dao.Logger.WithError(err).WithField("operation", "PutPreferences").Error("Failed to put user preferences")
		return fmt.Errorf("failed to put preferences: %w", err)
	}

	return nil
}
