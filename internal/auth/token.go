package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated identity extracted from a bearer
// token. Authorization beyond identity (row-level access) is enforced
// by the backing database platform, not here.
type Principal struct {
	Subject    string
	CompanyIDs []string
}

type contextKey int

const principalContextKey contextKey = iota

// PrincipalFromContext extracts the authenticated principal from the
// request context. Returns nil for unauthenticated requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	principal, _ := ctx.Value(principalContextKey).(*Principal)
	return principal
}

type claims struct {
	jwt.RegisteredClaims
	CompanyIDs []string `json:"company_ids,omitempty"`
}

// IssueToken mints an HMAC-signed bearer token for a subject.
func IssueToken(secret []byte, subject string, companyIDs []string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		CompanyIDs: companyIDs,
	})
	return token.SignedString(secret)
}

// VerifyToken validates a bearer token and returns its principal.
func VerifyToken(secret []byte, tokenString string) (*Principal, error) {
	var parsed claims
	token, err := jwt.ParseWithClaims(tokenString, &parsed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	return &Principal{
		Subject:    parsed.Subject,
		CompanyIDs: parsed.CompanyIDs,
	}, nil
}

// Middleware rejects requests without a valid bearer token and puts
// the principal on the request context.
func Middleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			principal, err := VerifyToken(secret, tokenString)
			if err != nil {
				writeUnauthorized(w, "invalid bearer token")
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"error":{"code":"unauthenticated","message":%q}}`, message)
}
