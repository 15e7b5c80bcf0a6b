package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/de-tools/beat-sheets/pkg/handlers/respond"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const (
	HeaderAccessAssertion = "Cf-Access-Jwt-Assertion"
	HeaderAPIKey          = "X-API-Key"

	// IdentityAPIKey is the caller identity of requests holding the static key
	IdentityAPIKey = "api-key"
	identityJWT    = "jwt"
)

type AuthSettings struct {
	APIKey        string
	JWTSigningKey string
	JWTAudience   string
}

type identityKey struct{}

// IdentityFrom returns the authenticated caller stored by Auth, if any
func IdentityFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey{}).(string)
	return id, ok && id != ""
}

func WithIdentity(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// Auth admits requests carrying a valid signed access assertion or the
// static API key. Everything else gets 401. With neither credential
// configured every request is rejected.
func Auth(settings AuthSettings) func(http.Handler) http.Handler {
	var parser *jwt.Parser
	if settings.JWTSigningKey != "" {
		opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
		if settings.JWTAudience != "" {
			opts = append(opts, jwt.WithAudience(settings.JWTAudience))
		}
		parser = jwt.NewParser(opts...)
	}
	signingKey := []byte(settings.JWTSigningKey)
	apiKey := []byte(settings.APIKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context())

			if raw := assertion(r); raw != "" && parser != nil {
				claims := jwt.RegisteredClaims{}
				_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
					return signingKey, nil
				})
				if err == nil {
					id := claims.Subject
					if id == "" {
						id = identityJWT
					}
					next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
					return
				}
				logger.Warn().Err(err).Msg("rejected access assertion")
			}

			if key := r.Header.Get(HeaderAPIKey); key != "" && len(apiKey) > 0 {
				if subtle.ConstantTimeCompare([]byte(key), apiKey) == 1 {
					next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), IdentityAPIKey)))
					return
				}
				logger.Warn().Msg("rejected api key")
			}

			respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
		})
	}
}

func assertion(r *http.Request) string {
	if raw := r.Header.Get(HeaderAccessAssertion); raw != "" {
		return raw
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > len("Bearer ") && strings.EqualFold(auth[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(auth[len("Bearer "):])
	}
	return ""
}
