package config

import (
	"fmt"
	"strings"
	"time"

	"fourhorizons/lib/constants"
	"fourhorizons/lib/util"

	"github.com/spf13/viper"
)

// Config is the environment driven configuration shared by every function.
// Each function only reads the fields it needs.
type Config struct {
	Region           string        `mapstructure:"aws_region"`
	UserPoolID       string        `mapstructure:"user_pool_id"`
	JWKSURL          string        `mapstructure:"jwks_url"`
	JWKSTimeout      time.Duration `mapstructure:"jwks_timeout"`
	ClockSkew        time.Duration `mapstructure:"jwt_clock_skew"`
	PolicyMode       string        `mapstructure:"policy_mode"`
	PolicyActions    string        `mapstructure:"policy_actions"`
	FirebaseSecretID string        `mapstructure:"firebase_secret_id"`
	SettingsTable    string        `mapstructure:"settings_table"`
	PreferencesTable string        `mapstructure:"preferences_table"`
	LogLevel         string        `mapstructure:"log_level"`
	IsLocal          bool          `mapstructure:"is_local"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("aws_region", constants.DEFAULT_REGION)
	v.SetDefault("user_pool_id", "")
	v.SetDefault("jwks_url", "")
	v.SetDefault("jwks_timeout", 5*time.Second)
	v.SetDefault("jwt_clock_skew", time.Duration(0))
	v.SetDefault("policy_mode", "stage")
	v.SetDefault("policy_actions", strings.Join(constants.DEFAULT_POLICY_ACTIONS, ","))
	v.SetDefault("firebase_secret_id", constants.DEFAULT_FIREBASE_SECRET_ID)
	v.SetDefault("settings_table", constants.DEFAULT_SETTINGS_TABLE)
	v.SetDefault("preferences_table", constants.DEFAULT_PREFERENCES_TABLE)
	v.SetDefault("log_level", "info")
	v.SetDefault("is_local", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.JWKSTimeout < 0 || cfg.ClockSkew < 0 {
		return nil, fmt.Errorf("jwks_timeout and jwt_clock_skew must be non-negative")
	}
	return &cfg, nil
}

// Issuer is the Cognito user pool issuer URL, empty when no pool is configured.
func (c *Config) Issuer() string {
	if c.UserPoolID == "" {
		return ""
	}
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

// JWKSEndpoint returns JWKS_URL when set, otherwise the user pool's well-known key set.
func (c *Config) JWKSEndpoint() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	if issuer := c.Issuer(); issuer != "" {
		return issuer + "/.well-known/jwks.json"
	}
	return ""
}

// Actions returns the configured policy actions.
func (c *Config) Actions() []string {
	return util.SplitList(c.PolicyActions)
}
