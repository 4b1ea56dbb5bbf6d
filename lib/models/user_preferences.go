package models

// UserPreferences is the per-user content preferences item
// (PK = USER#{id}, SK = PREFERENCES#{id}).
type UserPreferences struct {
	PK        string        `json:"PK" dynamodbav:"PK"`
	SK        string        `json:"SK" dynamodbav:"SK"`
	UserID    string        `json:"user_id" dynamodbav:"user_id"`
	Locations []interface{} `json:"locations" dynamodbav:"locations"`
	Schools   []string      `json:"schools" dynamodbav:"schools"`
	Districts []string      `json:"districts" dynamodbav:"districts"`
	Topics    []string      `json:"topics" dynamodbav:"topics"`
	CreatedAt string        `json:"created_at" dynamodbav:"created_at"`
}
