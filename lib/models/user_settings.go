package models

// UserSettings is the per-user display settings item
// (PK = USER#{id}, SK = SETTINGS).
type UserSettings struct {
	PK               string `json:"PK" dynamodbav:"PK"`
	SK               string `json:"SK" dynamodbav:"SK"`
	UserID           string `json:"user_id" dynamodbav:"user_id"`
	IsDarkMode       bool   `json:"isDarkMode" dynamodbav:"isDarkMode"`
	ThemeColor       string `json:"themeColor" dynamodbav:"themeColor"`
	FontSize         int    `json:"fontSize" dynamodbav:"fontSize"`
	BiometricEnabled bool   `json:"biometricEnabled" dynamodbav:"biometricEnabled"`
	UpdatedAt        string `json:"updated_at,omitempty" dynamodbav:"updated_at,omitempty"`
}

// DefaultUserSettings are applied to fields a user has never set.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		IsDarkMode:       false,
		ThemeColor:       "black",
		FontSize:         14,
		BiometricEnabled: false,
	}
}
