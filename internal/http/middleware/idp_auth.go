package middleware

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityProviderConfig holds validation settings for the external identity
// provider's HMAC-signed JWTs.
type IdentityProviderConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

// IdentityClaims are the claims VoiceHub reads from identity-provider tokens.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

var errIdentityNotConfigured = errors.New("identity provider not configured")

// identityProviderValidator returns a function validating raw tokens into claims.
func identityProviderValidator(cfg IdentityProviderConfig) func(tokenString string) (*IdentityClaims, error) {
	return func(tokenString string) (*IdentityClaims, error) {
		if cfg.Secret == "" {
			return nil, errIdentityNotConfigured
		}

		opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
		if cfg.Issuer != "" {
			opts = append(opts, jwt.WithIssuer(cfg.Issuer))
		}
		if cfg.Audience != "" {
			opts = append(opts, jwt.WithAudience(cfg.Audience))
		}

		claims := &IdentityClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Secret), nil
		}, opts...)
		if err != nil || !token.Valid {
			return nil, errors.New("invalid identity token")
		}
		if claims.Subject == "" {
			return nil, errors.New("identity token missing subject")
		}
		return claims, nil
	}
}
