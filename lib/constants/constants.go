package constants

// SSM parameter names, all under SSM_PATH.
const (
	SSM_PATH        = "/fourhorizons"
	ALLOWED_ORIGINS = "/fourhorizons/ALLOWED_ORIGINS"
)

// Authorizer context keys. API Gateway only transports string values here.
const (
	CONTEXT_USER     = "user"
	CONTEXT_UID      = "uid"
	CONTEXT_USERNAME = "username"
	CONTEXT_EMAIL    = "email"
	CONTEXT_SCOPE    = "scope"
	CONTEXT_SCOPES   = "scopes"
	CONTEXT_PROVIDER = "provider"
	CONTEXT_CLAIMS   = "claims"
)

const (
	POLICY_VERSION       = "2012-10-17"
	POLICY_ACTION        = "execute-api:Invoke"
	DEFAULT_PRINCIPAL    = "user"
	UNAUTHORIZED_MESSAGE = "Unauthorized"
)

const (
	DEFAULT_REGION             = "us-east-1"
	DEFAULT_FIREBASE_SECRET_ID = "firebase/service-account-key"
	DEFAULT_SETTINGS_TABLE     = "user_settings"
	DEFAULT_PREFERENCES_TABLE  = "user_preferences"
)

// DEFAULT_POLICY_ACTIONS are the interaction endpoints covered by the
// post-interactions authorizer.
var DEFAULT_POLICY_ACTIONS = []string{
	"comment",
	"favorite",
	"unfavorite",
	"react",
	"remove-reaction",
	"view",
	"flush-view-counts",
}
