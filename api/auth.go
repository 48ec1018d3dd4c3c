/*
auth.go - Admin session gate

PURPOSE:
  Single-password admin login issuing a short-lived JWT, plus the middleware
  that gates the analytics and budget endpoints. The password is never
  stored in clear: it is bcrypt-hashed at startup and compared on login.

TOKENS:
  HS256-signed, 24h expiry by default, carried as "Authorization: Bearer".
  No refresh tokens, no user accounts - the dashboard has exactly one role.

SEE ALSO:
  - server.go: Applies the middleware to protected routes
  - config/config.go: ADMIN_PASSWORD and JWT_SECRET sources
*/
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload for an admin session.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth holds the hashed admin password and token signing material.
type Auth struct {
	secret     []byte
	hash       []byte
	expiration time.Duration
}

// NewAuth hashes the admin password and prepares the signer.
func NewAuth(adminPassword, jwtSecret string, expiration time.Duration) (*Auth, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Auth{
		secret:     []byte(jwtSecret),
		hash:       hash,
		expiration: expiration,
	}, nil
}

// Login verifies the password and returns a signed token, or "" when the
// password does not match.
func (a *Auth) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return "", nil
	}

	claims := &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken parses and verifies a bearer token.
func (a *Auth) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrSignatureInvalid
}

// Middleware rejects requests without a valid Bearer token.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "No token provided", nil)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if _, err := a.ValidateToken(tokenString); err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
