package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"slices"
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
	logger             *logrus.Logger
	settingsRepository data.SettingsRepository
	now                = time.Now
)

var (
	themeColors     = []string{"red", "green", "blue", "yellow", "orange", "purple", "pink", "black", "white"}
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

func LambdaHandler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.WithFields(logrus.Fields{
		"operation": "LambdaHandler",
		"method":    request.HTTPMethod,
		"path":      request.Path,
	}).Info("User settings request received")

	principal, err := auth.PrincipalFromRequest(request)
	if err != nil {
		logger.WithError(err).Warn("Authentication failed")
		return api.ErrorMessageResponse(http.StatusUnauthorized, "Unauthorized", "User ID not found in request context", logger), nil
	}

	switch request.HTTPMethod {
	case http.MethodGet:
		return handleGetSettings(ctx, principal), nil
	case http.MethodPut:
		return handlePutSettings(ctx, request, principal), nil
	default:
		return api.ErrorResponse(http.StatusMethodNotAllowed, "Method not allowed", logger), nil
	}
}

// handleGetSettings handles GET /user/settings
func handleGetSettings(ctx context.Context, principal *auth.Principal) events.APIGatewayProxyResponse {
	settings, err := settingsRepository.GetSettings(ctx, principal.UserID)
	if errors.Is(err, data.ErrNotFound) {
		return api.ErrorResponse(http.StatusNotFound, "Settings not found", logger)
	}
	if err != nil {
		logger.WithError(err).Error("Failed to get user settings")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to get user settings", logger)
	}

	return api.SuccessResponse(http.StatusOK, settings, logger)
}

// handlePutSettings handles PUT /user/settings. Fields missing from the body
// keep their stored value, or the default when nothing is stored.
func handlePutSettings(ctx context.Context, request events.APIGatewayProxyRequest, principal *auth.Principal) events.APIGatewayProxyResponse {
	body := strings.TrimSpace(request.Body)
	if body == "" {
		body = "{}"
	}

	var update map[string]interface{}
	if err := json.Unmarshal([]byte(body), &update); err != nil {
		logger.WithError(err).Warn("Invalid request body for user settings")
		return api.ErrorMessageResponse(http.StatusBadRequest, "Bad Request", "Invalid JSON in request body", logger)
	}

	if details := validateSettings(update); len(details) > 0 {
		return api.ValidationErrorResponse("Invalid data", details, logger)
	}

	current, err := settingsRepository.GetSettings(ctx, principal.UserID)
	switch {
	case errors.Is(err, data.ErrNotFound):
		defaults := models.DefaultUserSettings()
		current = &defaults
	case err != nil:
		logger.WithError(err).Error("Failed to load current user settings")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to save user settings", logger)
	}

	settings := applySettings(*current, update)
	settings.UserID = principal.UserID
	settings.UpdatedAt = now().UTC().Format(time.RFC3339)

	if err := settingsRepository.PutSettings(ctx, &settings); err != nil {
		logger.WithError(err).Error("Failed to save user settings")
		return api.ErrorResponse(http.StatusInternalServerError, "Failed to save user settings", logger)
	}

	return api.SuccessResponse(http.StatusCreated, settings, logger)
}

func validateSettings(update map[string]interface{}) []string {
	var details []string

	if value, ok := update["isDarkMode"]; ok {
		if _, isBool := value.(bool); !isBool {
			details = append(details, "isDarkMode must be a boolean")
		}
	}

	if value, ok := update["themeColor"]; ok {
		color, isString := value.(string)
		switch {
		case !isString:
			details = append(details, "themeColor must be a string")
		case !slices.Contains(themeColors, color) && !hexColorPattern.MatchString(color):
			details = append(details, fmt.Sprintf("themeColor must be one of: %s, or a valid hex color (e.g., #FF0000)", strings.Join(themeColors, ", ")))
		}
	}

	if value, ok := update["fontSize"]; ok {
		size, isNumber := value.(float64)
		if !isNumber || size != math.Trunc(size) || size < 10 || size > 30 {
			details = append(details, "fontSize must be an integer between 10 and 30")
		}
	}

	if value, ok := update["biometricEnabled"]; ok {
		if _, isBool := value.(bool); !isBool {
			details = append(details, "biometricEnabled must be a boolean")
		}
	}

	return details
}

// applySettings overlays a validated update onto settings.
func applySettings(settings models.UserSettings, update map[string]interface{}) models.UserSettings {
	if value, ok := update["isDarkMode"].(bool); ok {
		settings.IsDarkMode = value
	}
	if value, ok := update["themeColor"].(string); ok {
		settings.ThemeColor = value
	}
	if value, ok := update["fontSize"].(float64); ok {
		settings.FontSize = int(value)
	}
	if value, ok := update["biometricEnabled"].(bool); ok {
		settings.BiometricEnabled = value
	}
	return settings
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

	settingsRepository = &data.SettingsDao{
		DynamoDB:  clients.NewDynamoDBClient(cfg.IsLocal, cfg.Region),
		TableName: cfg.SettingsTable,
		Logger:    logger,
	}
}
