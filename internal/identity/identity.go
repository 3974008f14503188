// Package identity verifies caller identity from PASETO access tokens.
// Token issuance lives in the companion auth service; this server only
// verifies v4.local tokens minted with the shared symmetric key.
package identity

import (
	"context"
	"encoding/json/v2"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/plannerapp/planner-server/internal/errors"
)

const (
	tokenIssuer   = "planner-auth"
	tokenAudience = "planner-server"
)

// Claims are the verified claims carried by an access token.
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Display string `json:"display_name"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// Verifier validates a bearer token and returns the claims it carries.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// PasetoVerifier verifies PASETO v4.local access tokens.
type PasetoVerifier struct {
	symmetricKey paseto.V4SymmetricKey
}

// NewPasetoVerifier creates a verifier from a raw 32-byte symmetric key.
func NewPasetoVerifier(keyBytes []byte) (*PasetoVerifier, error) {
	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create PASETO symmetric key")
	}

	return &PasetoVerifier{symmetricKey: key}, nil
}

// Verify parses and decrypts a v4.local token, enforcing the standard
// issuer/audience/lifetime rules.
func (v *PasetoVerifier) Verify(_ context.Context, tokenString string) (*Claims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(v.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, errors.Unauthorized("invalid token").WithCause(err)
	}

	var claims Claims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, errors.Unauthorized("invalid token claims").WithCause(err)
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, errors.Unauthorized("token missing subject")
	}

	return &claims, nil
}
