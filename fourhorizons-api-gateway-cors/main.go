package main

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"fourhorizons/lib/clients"
	"fourhorizons/lib/config"
	"fourhorizons/lib/constants"
	"fourhorizons/lib/data"
	"fourhorizons/lib/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

var (
	logger        *logrus.Logger
	ssmRepository data.SSMRepository

	originsMu sync.Mutex
	origins   []string
)

// allowedOrigins loads ALLOWED_ORIGINS from the parameter store once per
// execution environment. A failed load is retried on the next request.
func allowedOrigins() ([]string, error) {
	originsMu.Lock()
	defer originsMu.Unlock()

	if origins != nil {
		return origins, nil
	}

	params, err := ssmRepository.GetParameters()
	if err != nil {
		return nil, err
	}

	origins = util.SplitList(params[constants.ALLOWED_ORIGINS])
	if origins == nil {
		origins = []string{}
	}
	return origins, nil
}

func originHeader(headers map[string]string) string {
	for name, value := range headers {
		if strings.EqualFold(name, "origin") {
			return value
		}
	}
	return ""
}

func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestOrigin := originHeader(request.Headers)
	if requestOrigin == "" {
		logger.WithField("operation", "handler").Warn("origin is not present in the request headers")
		return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest}, nil
	}

	allowed, err := allowedOrigins()
	if err != nil {
		logger.WithError(err).Error("Error while getting ssm params from param store")
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}

	for _, allowedOrigin := range allowed {
		if allowedOrigin == "*" || allowedOrigin == requestOrigin {
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusOK,
				Headers: map[string]string{
					"Access-Control-Allow-Origin":      requestOrigin,
					"Access-Control-Allow-Headers":     "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
					"Access-Control-Allow-Methods":     "GET, PUT, POST, OPTIONS",
					"Access-Control-Allow-Credentials": "true",
				},
			}, nil
		}
	}

	logger.WithFields(logrus.Fields{
		"operation": "handler",
		"origin":    requestOrigin,
	}).Warn("Unauthorized origin")

	return events.APIGatewayProxyResponse{StatusCode: http.StatusForbidden}, nil
}

func main() {
	lambda.Start(handler)
}

func init() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger = util.NewLogger(cfg.LogLevel, cfg.IsLocal)

	ssmRepository = &data.SSMDao{
		SSM:    clients.NewSSMClient(cfg.IsLocal, cfg.Region),
		Logger: logger,
	}
}
