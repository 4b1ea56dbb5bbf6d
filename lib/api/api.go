package api

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

const (
	allowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"
	allowMethods = "GET,PUT,OPTIONS"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": allowHeaders,
		"Access-Control-Allow-Methods": allowMethods,
	}
}

// SuccessResponse creates a successful API Gateway response
func SuccessResponse(statusCode int, data interface{}, logger *logrus.Logger) events.APIGatewayProxyResponse {
	body, err := json.Marshal(data)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal response data")
		return ErrorResponse(http.StatusInternalServerError, "Internal server error", logger)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    jsonHeaders(),
	}
}

// ErrorResponse creates an error API Gateway response
func ErrorResponse(statusCode int, message string, logger *logrus.Logger) events.APIGatewayProxyResponse {
	return errorBodyResponse(statusCode, ErrorBody{Error: message}, logger)
}

// ErrorMessageResponse is ErrorResponse with a human readable message next to the error.
func ErrorMessageResponse(statusCode int, errorText, message string, logger *logrus.Logger) events.APIGatewayProxyResponse {
	return errorBodyResponse(statusCode, ErrorBody{Error: errorText, Message: message}, logger)
}

// ValidationErrorResponse creates a validation error response
func ValidationErrorResponse(message string, details []string, logger *logrus.Logger) events.APIGatewayProxyResponse {
	return errorBodyResponse(http.StatusBadRequest, ErrorBody{Error: message, Details: details}, logger)
}

func errorBodyResponse(statusCode int, errorBody ErrorBody, logger *logrus.Logger) events.APIGatewayProxyResponse {
	body, err := json.Marshal(errorBody)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal error response")
		body = []byte(`{"error":"Internal server error"}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Body:       string(body),
		Headers:    jsonHeaders(),
	}
}
