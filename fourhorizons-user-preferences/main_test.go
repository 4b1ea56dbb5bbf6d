package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"fourhorizons/lib/data"
	"fourhorizons/lib/models"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPreferencesRepository struct {
	stored *models.UserPreferences
	err    error
}

func (m *mockPreferencesRepository) GetPreferences(ctx context.Context, userID string) (*models.UserPreferences, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.stored == nil {
		return nil, data.ErrNotFound
	}
	return m.stored, nil
}

func (m *mockPreferencesRepository) PutPreferences(ctx context.Context, preferences *models.UserPreferences) error {
	if m.err != nil {
		return m.err
	}
	copied := *preferences
	m.stored = &copied
	return nil
}

func useRepository(t *testing.T, repo *mockPreferencesRepository) {
	t.Helper()
	previous := preferencesRepository
	preferencesRepository = repo
	now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	t.Cleanup(func() {
		preferencesRepository = previous
		now = time.Now
	})
}

func preferencesRequest(method, userID, body string) events.APIGatewayProxyRequest {
	authorizer := map[string]interface{}{}
	if userID != "" {
		authorizer["user"] = userID
	}
	return events.APIGatewayProxyRequest{
		HTTPMethod:     method,
		Path:           "/user/preferences",
		Body:           body,
		RequestContext: events.APIGatewayProxyRequestContext{Authorizer: authorizer},
	}
}

const validPreferences = `{
	"locations": [{"lat": 40.7128, "lng": -74.006}],
	"schools": ["school1", "school2"],
	"districts": ["district1"],
	"topics": ["math", "science"]
}`

func Test_MissingUser(t *testing.T) {
	useRepository(t, &mockPreferencesRepository{})

	resp, _ := LambdaHandler(context.Background(), preferencesRequest(http.MethodGet, "", ""))

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func Test_GetPreferences_NotFound(t *testing.T) {
	useRepository(t, &mockPreferencesRepository{})

	resp, _ := LambdaHandler(context.Background(), preferencesRequest(http.MethodGet, "user-1", ""))

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Preferences not found"}`, resp.Body)
}

func Test_GetPreferences_StoreError(t *testing.T) {
	useRepository(t, &mockPreferencesRepository{err: errors.New("DynamoDB error")})

	resp, _ := LambdaHandler(context.Background(), preferencesRequest(http.MethodGet, "user-1", ""))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to get user preferences"}`, resp.Body)
}

func Test_PutPreferences_Created(t *testing.T) {
	//Arrange
	repo := &mockPreferencesRepository{}
	useRepository(t, repo)

	//Act
	resp, _ := LambdaHandler(context.Background(), preferencesRequest(http.MethodPut, "user-1", validPreferences))

	//Assert
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, repo.stored)
	assert.Equal(t, "user-1", repo.stored.UserID)
	assert.Equal(t, []string{"school1", "school2"}, repo.stored.Schools)
	assert.Equal(t, []string{"math", "science"}, repo.stored.Topics)
	assert.Len(t, repo.stored.Locations, 1)
	assert.Equal(t, "2026-03-04T05:06:07Z", repo.stored.CreatedAt)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "2026-03-04T05:06:07Z", body["created_at"])
}

func Test_PutPreferences_MissingField(t *testing.T) {
	cases := map[string]string{
		`{}`: "locations is required and must be an array",
		`{"locations":[],"schools":"school1","districts":[],"topics":[]}`: "schools is required and must be an array",
		`{"locations":[],"schools":[],"districts":null,"topics":[]}`:      "districts is required and must be an array",
		`{"locations":[],"schools":[],"districts":[]}`:                    "topics is required and must be an array",
	}

	for body, message := range cases {
		repo := &mockPreferencesRepository{}
		useRepository(t, repo)

		resp, _ := LambdaHandler(context.Background(), preferencesRequest(http.MethodPut, "user-1", body))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.JSONEq(t, `{"error":"`+message+`"}`, resp.Body, body)
		assert.Nil(t, repo.stored)
	}
}

func Test_PutPreferences_StoreError(t *testing.T) {
	useRepository(t, &mockPreferencesRepository{err: errors.New("DynamoDB error")})

	resp, _ := LambdaHandler(context.Background(), preferencesRequest(http.MethodPut, "user-1", validPreferences))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to create user preferences"}`, resp.Body)
}
