package models

// AuthorizerEvent is the union of the API Gateway TOKEN and REQUEST authorizer
// payloads. TOKEN authorizers populate AuthorizationToken; REQUEST authorizers
// populate Headers.
type AuthorizerEvent struct {
	Type               string            `json:"type"`
	AuthorizationToken string            `json:"authorizationToken,omitempty"`
	MethodArn          string            `json:"methodArn"`
	Headers            map[string]string `json:"headers,omitempty"`
}
