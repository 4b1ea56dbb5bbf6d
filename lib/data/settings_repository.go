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

const settingsSK = "SETTINGS"

// SettingsRepository defines the data operations for user settings
type SettingsRepository interface {
	// GetSettings returns ErrNotFound when the user has never saved settings
	GetSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	PutSettings(ctx context.Context, settings *models.UserSettings) error
}

// SettingsDao implements SettingsRepository on a DynamoDB table
type SettingsDao struct {
	DynamoDB  DynamoDBClientInterface
	TableName string
	Logger    *logrus.Logger
}

func (dao *SettingsDao) GetSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	output, err := dao.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(dao.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(userID)},
			"SK": &types.AttributeValueMemberS{Value: settingsSK},
		},
	})
	if err != nil {
		dao.Logger.WithError(err).WithField("operation", "GetSettings").Error("Failed to get user settings")
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if len(output.Item) == 0 {
		return nil, ErrNotFound
	}

	var settings models.UserSettings
	if err := attributevalue.UnmarshalMap(output.Item, &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &settings, nil
}

// PutSettings writes the item, filling in its keys from UserID
func (dao *SettingsDao) PutSettings(ctx context.Context, settings *models.UserSettings) error {
	settings.PK = userPK(settings.UserID)
	settings.SK = settingsSK

	item, err := attributevalue.MarshalMap(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	_, err = dao.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(dao.TableName),
		Item:      item,
	})
	if err != nil {
		dao.Logger.WithError(err).WithField("operation", "PutSettings").Error("Failed to put user settings")
		return fmt.Errorf("failed to put settings: %w", err)
	}

	return nil
}
