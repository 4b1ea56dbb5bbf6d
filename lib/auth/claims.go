package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Provider identifies which identity provider produced a set of claims.
type Provider string

const (
	ProviderCognito  Provider = "cognito"
	ProviderFirebase Provider = "firebase"
)

// Claims is the verified identity of a request. The only implementations are
// JWTClaims and IdentityPlatformClaims.
type Claims interface {
	Subject() string
	Email() string
	Username() string
	Scope() string
	Provider() Provider

	sealed()
}

// cognitoTokenClaims is the wire shape of a Cognito ID or access token.
type cognitoTokenClaims struct {
	jwt.RegisteredClaims
	Email           string `json:"email,omitempty"`
	CognitoUsername string `json:"cognito:username,omitempty"`
	Username        string `json:"username,omitempty"`
	Scope           string `json:"scope,omitempty"`
	TokenUse        string `json:"token_use,omitempty"`
}

// JWTClaims are the claims of a verified Cognito JWT.
type JWTClaims struct {
	Sub      string
	EmailID  string
	UserName string
	Scopes   string
	TokenUse string
}

func newJWTClaims(c *cognitoTokenClaims) *JWTClaims {
	username := c.CognitoUsername
	if username == "" {
		username = c.Username
	}
	return &JWTClaims{
		Sub:      c.Subject,
		EmailID:  c.Email,
		UserName: username,
		Scopes:   c.Scope,
		TokenUse: c.TokenUse,
	}
}

func (c *JWTClaims) Subject() string    { return c.Sub }
func (c *JWTClaims) Email() string      { return c.EmailID }
func (c *JWTClaims) Username() string   { return c.UserName }
func (c *JWTClaims) Scope() string      { return c.Scopes }
func (c *JWTClaims) Provider() Provider { return ProviderCognito }
func (c *JWTClaims) sealed()            {}

// IdentityPlatformClaims are the claims of a verified Firebase ID token.
type IdentityPlatformClaims struct {
	UID         string
	EmailID     string
	DisplayName string
}

func (c *IdentityPlatformClaims) Subject() string    { return c.UID }
func (c *IdentityPlatformClaims) Email() string      { return c.EmailID }
func (c *IdentityPlatformClaims) Username() string   { return c.DisplayName }
func (c *IdentityPlatformClaims) Scope() string      { return "" }
func (c *IdentityPlatformClaims) Provider() Provider { return ProviderFirebase }
func (c *IdentityPlatformClaims) sealed()            {}
