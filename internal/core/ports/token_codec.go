package ports

import "github.com/auvet/auth-service/internal/core/domain"

// TokenCodec signs session claims into opaque bearer tokens and verifies them
// back. Verification failures are reported uniformly as domain.ErrInvalidToken
// regardless of cause, so callers cannot tell a bad signature from an expired
// or malformed token.
type TokenCodec interface {
	Issue(claims domain.TokenClaims) (string, error)
	Verify(token string) (domain.TokenClaims, error)

	// Decode extracts claims without verifying the signature, returning nil on
	// malformed input. Introspection only; never use it for authorization.
	Decode(token string) *domain.TokenClaims
}
