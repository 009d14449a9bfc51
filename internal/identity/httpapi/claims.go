package httpapi

import (
	"fmt"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"

	"github.com/zenorapm/zenora/internal/identity"
)

var signingAlgs = []jose.SignatureAlgorithm{
	jose.RS256, jose.RS384, jose.RS512,
	jose.ES256, jose.ES384, jose.ES512,
	jose.PS256, jose.PS384, jose.PS512,
	jose.HS256, jose.HS384, jose.HS512,
	jose.EdDSA,
}

type accessClaims struct {
	Subject  string            `json:"sub"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"user_metadata"`
}

// userFromClaims derives the user from the access-token claims. The token
// was just issued to us over TLS by the provider, so the signature is not
// re-verified here; the provider's JWKS is not part of this interface.
func userFromClaims(accessToken string) (identity.User, error) {
	token, err := jwt.ParseSigned(accessToken, signingAlgs)
	if err != nil {
		return identity.User{}, fmt.Errorf("parsing access token: %w", err)
	}

	var claims accessClaims
	if err := token.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return identity.User{}, fmt.Errorf("reading token claims: %w", err)
	}

	return identity.User{
		ID:       claims.Subject,
		Email:    claims.Email,
		FullName: claims.Metadata["full_name"],
	}, nil
}
