package auth

import "errors"

// Authorization failure kinds. Every one of them is reported to API Gateway
// as the same opaque "Unauthorized" error; the kind is only logged.
var (
	ErrMissingToken         = errors.New("missing bearer token")
	ErrMalformedToken       = errors.New("malformed token")
	ErrMissingKeyID         = errors.New("token header has no kid")
	ErrKeyNotFound          = errors.New("signing key not found in key set")
	ErrKeyFetchFailed       = errors.New("failed to fetch signing keys")
	ErrSignatureInvalid     = errors.New("token signature or claims invalid")
	ErrInvalidIdentityToken = errors.New("invalid identity token")
	ErrMalformedARN         = errors.New("malformed method ARN")
)

var failureKinds = []error{
	ErrMissingToken,
	ErrMalformedToken,
	ErrMissingKeyID,
	ErrKeyNotFound,
	ErrKeyFetchFailed,
	ErrSignatureInvalid,
	ErrInvalidIdentityToken,
	ErrMalformedARN,
}

// FailureKind returns the taxonomy entry err belongs to, for logging.
func FailureKind(err error) string {
	for _, kind := range failureKinds {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "unknown"
}
