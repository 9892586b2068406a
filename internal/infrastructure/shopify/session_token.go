package shopify

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionTokenClaims are the claims App Bridge puts in a session token
type sessionTokenClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// SessionTokenClaims is the verified identity carried by a session token
type SessionTokenClaims struct {
	Shop   string
	UserID int64
}

// SessionTokenVerifier validates App Bridge session tokens (HS256, signed with the app secret)
type SessionTokenVerifier struct {
	apiKey    string
	apiSecret []byte
	leeway    time.Duration
	now       func() time.Time
}

// NewSessionTokenVerifier creates a verifier for the app's credentials
func NewSessionTokenVerifier(apiKey, apiSecret string) *SessionTokenVerifier {
	return &SessionTokenVerifier{
		apiKey:    apiKey,
		apiSecret: []byte(apiSecret),
		leeway:    5 * time.Second,
		now:       time.Now,
	}
}

// Verify checks signature, audience, lifetime and the iss/dest pairing, then extracts the shop and user
func (v *SessionTokenVerifier) Verify(raw string) (*SessionTokenClaims, error) {
	var claims sessionTokenClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (interface{}, error) { return v.apiSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.apiKey),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	if claims.Issuer != claims.Dest+"/admin" {
		return nil, errors.New("invalid session token: iss does not match dest")
	}

	dest, err := url.Parse(claims.Dest)
	if err != nil || dest.Host == "" {
		return nil, errors.New("invalid session token: bad dest claim")
	}
	shop, err := SanitizeShop(dest.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: bad sub claim: %w", err)
	}

	return &SessionTokenClaims{Shop: shop, UserID: userID}, nil
}
