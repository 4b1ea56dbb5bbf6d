package auth

import (
	"encoding/json"
	"fmt"
	"strings"

	"fourhorizons/lib/constants"

	"github.com/aws/aws-lambda-go/events"
)

// identityClaims is the JSON document stored under the "claims" context key.
type identityClaims struct {
	Sub      string `json:"sub"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Scope    string `json:"scope,omitempty"`
}

// EncodeContext flattens claims into the string-only authorizer context.
func EncodeContext(principalID string, claims Claims) (map[string]string, error) {
	encoded, err := json.Marshal(identityClaims{
		Sub:      claims.Subject(),
		Username: claims.Username(),
		Email:    claims.Email(),
		Scope:    claims.Scope(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode claims: %w", err)
	}

	ctx := map[string]string{
		constants.CONTEXT_USER:     principalID,
		constants.CONTEXT_USERNAME: claims.Username(),
		constants.CONTEXT_EMAIL:    claims.Email(),
		constants.CONTEXT_PROVIDER: string(claims.Provider()),
		constants.CONTEXT_CLAIMS:   string(encoded),
	}
	if claims.Provider() == ProviderFirebase {
		ctx[constants.CONTEXT_UID] = principalID
	}
	if scope := claims.Scope(); scope != "" {
		ctx[constants.CONTEXT_SCOPE] = scope
	}
	return ctx, nil
}

// Principal is the identity a downstream handler reads from the authorizer context.
type Principal struct {
	UserID   string
	Username string
	Email    string
	Provider string
	Scopes   []string
}

// PrincipalFromRequest decodes the authorizer context attached by API Gateway.
func PrincipalFromRequest(request events.APIGatewayProxyRequest) (*Principal, error) {
	authorizer := request.RequestContext.Authorizer
	if authorizer == nil {
		return nil, fmt.Errorf("authorizer context not found")
	}

	userID := contextString(authorizer, constants.CONTEXT_USER)
	if userID == "" {
		return nil, fmt.Errorf("user not found in authorizer context")
	}

	principal := &Principal{
		UserID:   userID,
		Username: contextString(authorizer, constants.CONTEXT_USERNAME),
		Email:    contextString(authorizer, constants.CONTEXT_EMAIL),
		Provider: contextString(authorizer, constants.CONTEXT_PROVIDER),
	}

	scope := contextString(authorizer, constants.CONTEXT_SCOPE)
	if scope == "" {
		scope = contextString(authorizer, constants.CONTEXT_SCOPES)
	}

	// Older authorizers only set "user" and a JSON "claims" document.
	if raw := contextString(authorizer, constants.CONTEXT_CLAIMS); raw != "" {
		var claims identityClaims
		if err := json.Unmarshal([]byte(raw), &claims); err != nil {
			return nil, fmt.Errorf("failed to decode claims: %w", err)
		}
		if principal.Username == "" {
			principal.Username = claims.Username
		}
		if principal.Email == "" {
			principal.Email = claims.Email
		}
		if scope == "" {
			scope = claims.Scope
		}
	}

	principal.Scopes = strings.Fields(scope)
	return principal, nil
}

func contextString(authorizer map[string]interface{}, key string) string {
	value, ok := authorizer[key].(string)
	if !ok {
		return ""
	}
	return value
}
