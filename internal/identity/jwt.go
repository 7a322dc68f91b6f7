package identity

import (
	"errors"
	"net/http"
	"strings"
	"time"

	mongodb "stayhub/pkg/db/mongo"
	apperrors "stayhub/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "token"
	bearer     = "Bearer "
)

var errNoCredential = errors.New("no credential presented")

// Claims is the payload the auth service signs. UserID is kept for tokens
// minted before the subject claim carried the id.
type Claims struct {
	UserID   string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) subject() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}

// JWTResolver verifies HS256 credentials from the Authorization header or the
// session cookie.
type JWTResolver struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewJWTResolver(secret, issuer string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// WithClock replaces the time source used for expiry checks.
func (j *JWTResolver) WithClock(now func() time.Time) *JWTResolver {
	j.now = now
	return j
}

// Resolve returns the caller's user id or an Unauthorized AppError.
func (j *JWTResolver) Resolve(r *http.Request) (string, error) {
	raw, err := credentialFrom(r)
	if err != nil {
		return "", apperrors.Unauthorized("Authentication required")
	}

	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.Unauthorized("Session expired")
		}
		return "", apperrors.Unauthorized("Invalid credentials")
	}

	userID := claims.subject()
	if !mongodb.IsValidID(userID) {
		return "", apperrors.Unauthorized("Invalid credentials")
	}
	return userID, nil
}

// IssueToken signs a credential for userID valid for ttl.
func (j *JWTResolver) IssueToken(userID, username string, ttl time.Duration) (string, error) {
	now := j.now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

func credentialFrom(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		if len(h) > len(bearer) && strings.EqualFold(h[:len(bearer)], bearer) {
			return strings.TrimSpace(h[len(bearer):]), nil
		}
		return "", errNoCredential
	}
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	return "", errNoCredential
}
