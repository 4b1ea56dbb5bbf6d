package auth

import (
	"fmt"
	"strings"

	"fourhorizons/lib/constants"

	"github.com/aws/aws-lambda-go/events"
)

// Effect is the outcome of a policy statement.
type Effect string

const (
	Allow Effect = "Allow"
	Deny  Effect = "Deny"
)

// PolicyMode selects how broadly an Allow is scoped.
type PolicyMode string

const (
	// PolicyModeStage allows every method and path in the invoked stage.
	PolicyModeStage PolicyMode = "stage"
	// PolicyModeVerb allows the invoked verb on every path in every stage.
	PolicyModeVerb PolicyMode = "verb"
	// PolicyModeActions allows a fixed list of action paths in the invoked stage.
	PolicyModeActions PolicyMode = "actions"
	// PolicyModeMethod allows only the invoked method.
	PolicyModeMethod PolicyMode = "method"
)

// ParsePolicyMode validates a configured mode name.
func ParsePolicyMode(s string) (PolicyMode, error) {
	switch mode := PolicyMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case PolicyModeStage, PolicyModeVerb, PolicyModeActions, PolicyModeMethod:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown policy mode %q", s)
	}
}

// MethodARN is a parsed API Gateway method ARN:
// arn:{partition}:execute-api:{region}:{account}:{api}/{stage}/{verb}/{resource}
type MethodARN struct {
	Partition string
	Region    string
	AccountID string
	APIID     string
	Stage     string
	Verb      string
	Resource  string
}

// ParseMethodARN parses arn, failing with ErrMalformedARN on any structural problem.
func ParseMethodARN(arn string) (MethodARN, error) {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) != 6 || parts[0] != "arn" || parts[2] != "execute-api" {
		return MethodARN{}, fmt.Errorf("%w: %q", ErrMalformedARN, arn)
	}
	if parts[1] == "" || parts[3] == "" || parts[4] == "" {
		return MethodARN{}, fmt.Errorf("%w: %q", ErrMalformedARN, arn)
	}

	path := strings.SplitN(parts[5], "/", 4)
	if len(path) < 3 || path[0] == "" || path[1] == "" || path[2] == "" {
		return MethodARN{}, fmt.Errorf("%w: %q", ErrMalformedARN, arn)
	}

	parsed := MethodARN{
		Partition: parts[1],
		Region:    parts[3],
		AccountID: parts[4],
		APIID:     path[0],
		Stage:     path[1],
		Verb:      path[2],
	}
	if len(path) == 4 {
		parsed.Resource = path[3]
	}
	return parsed, nil
}

// Pattern renders an execute-api resource ARN for this API with the given
// stage, verb and resource path.
func (a MethodARN) Pattern(stage, verb, resource string) string {
	return fmt.Sprintf("arn:%s:execute-api:%s:%s:%s/%s/%s/%s",
		a.Partition, a.Region, a.AccountID, a.APIID, stage, verb, resource)
}

func (a MethodARN) String() string {
	return a.Pattern(a.Stage, a.Verb, a.Resource)
}

// PolicyGenerator builds authorizer responses.
type PolicyGenerator struct {
	Mode    PolicyMode
	Actions []string
}

// Resources returns the resource patterns for the invoked method.
func (g *PolicyGenerator) Resources(arn MethodARN) []string {
	switch g.Mode {
	case PolicyModeVerb:
		return []string{arn.Pattern("*", arn.Verb, "*")}
	case PolicyModeActions:
		resources := make([]string, 0, len(g.Actions))
		for _, action := range g.Actions {
			resources = append(resources, arn.Pattern(arn.Stage, "*", action))
		}
		return resources
	case PolicyModeMethod:
		return []string{arn.String()}
	default:
		return []string{arn.Pattern(arn.Stage, "*", "*")}
	}
}

// Generate returns the authorizer response for principalID on methodArn.
// A malformed ARN is an error, never a policy.
func (g *PolicyGenerator) Generate(principalID string, effect Effect, methodArn string, context map[string]string) (events.APIGatewayCustomAuthorizerResponse, error) {
	arn, err := ParseMethodARN(methodArn)
	if err != nil {
		return events.APIGatewayCustomAuthorizerResponse{}, err
	}

	resources := g.Resources(arn)
	if len(resources) == 0 {
		return events.APIGatewayCustomAuthorizerResponse{}, fmt.Errorf("policy mode %q produced no resources", g.Mode)
	}

	responseContext := make(map[string]interface{}, len(context))
	for k, v := range context {
		responseContext[k] = v
	}

	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: principalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: constants.POLICY_VERSION,
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{constants.POLICY_ACTION},
					Effect:   string(effect),
					Resource: resources,
				},
			},
		},
		Context: responseContext,
	}, nil
}
