package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fourhorizons/lib/api"
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
	logger                *logrus.Logger
	preferencesRepository data.PreferencesRepository
	now                   = time.Now
)

func LambdaHandler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.WithFields(logrus.Fields{
		"operation": "LambdaHandler",
		"method":    request.HTTPMethod,
		"path":      request.Path,
	}).Info("User preferences request received")

	principal, err := auth.PrincipalFromRequest(request)
	if err != nil {
		logger.WithError(err).Warn("Authentication failed")
		return api.ErrorMessageResponse(http.StatusUnauthorized, "Unauthorized", "User ID not found in request context", logger), nil
	}

	switch request.HTTPMethod {
	case http.MethodGet:
		return handleGetPreferences(ctx, principal), nil
	case http.MethodPut:
		return handlePutPreferences(ctx, request, principal), nil
	default:
		return api.ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed", logger), nil
	}
}

// handleGetPreferences handles GET /user/preferences
func handleGetPreferences(ctx context.Context, principal *auth.Principal) events.APIGatewayProxyResponse {
	preferences, err := preferencesRepository.GetPreferences(ctx, principal.UserID)
	if errors.Is(err, data.ErrNotFound) {
		return api.ErrorResponse(http.StatusNotFound, "Preferences not found", logger)
	}
	if err != nil {
		logger.WithError(err).Error("Failed to get user preferences")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to get user preferences", logger)
	}

	return api.SuccessResponse(http.StatusOK, preferences, logger)
}

// handlePutPreferences handles PUT /user/preferences. The item is replaced as a whole.
func handlePutPreferences(ctx context.Context, request events.APIGatewayProxyRequest, principal *auth.Principal) events.APIGatewayProxyResponse {
	body := strings.TrimSpace(request.Body)
	if body == "" {
		body = "{}"
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		logger.WithError(err).Warn("Invalid request body for user preferences")
		return api.ErrorMessageResponse(http.StatusBadRequest, "Bad Request", "Invalid JSON in request body", logger)
	}

	preferences := models.UserPreferences{UserID: principal.UserID}
	required := []struct {
		name   string
		target interface{}
	}{
		{"locations", &preferences.Locations},
		{"schools", &preferences.Schools},
		{"districts", &preferences.Districts},
		{"topics", &preferences.Topics},
	}
	for _, field := range required {
		if err := decodeArray(fields[field.name], field.target); err != nil {
			return api.ErrorResponse(http.StatusBadRequest, fmt.Sprintf("%s is required and must be an array", field.name), logger)
		}
	}

	preferences.CreatedAt = now().UTC().Format(time.RFC3339)

	if err := preferencesRepository.PutPreferences(ctx, &preferences); err != nil {
		logger.WithError(err).Error("Failed to create user preferences")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to create user preferences", logger)
	}

	return api.SuccessResponse(http.StatusCreated, preferences, logger)
}

// decodeArray decodes raw into target, rejecting anything that is not a JSON array.
func decodeArray(raw json.RawMessage, target interface{}) error {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") {
		return errors.New("not an array")
	}
	return json.Unmarshal(raw, target)
}

func main() {
	lambda.Start(LambdaHandler)
}

func init() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger = util.NewLogger(cfg.LogLevel, cfg.IsLocal)

	preferencesRepository = &data.PreferencesDao{
		DynamoDB:  clients.NewDynamoDBClient(cfg.IsLocal, cfg.Region),
		TableName: cfg.PreferencesTable,
		Logger:    logger,
	}
}
