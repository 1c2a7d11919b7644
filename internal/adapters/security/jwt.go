package security

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viralforge/mesh/services/business/M98-erp-master-service/internal/ports"
)

// JWTVerifier validates bearer tokens locally. HS256 tokens are checked with
// the shared secret; RS256 tokens with the authentication service's public key
// when one is configured.
type JWTVerifier struct {
	secret    []byte
	publicKey *rsa.PublicKey
	issuer    string
}

func NewJWTVerifier(secret, publicKeyPEM, issuer string) (*JWTVerifier, error) {
	v := &JWTVerifier{secret: []byte(secret), issuer: issuer}
	if strings.TrimSpace(publicKeyPEM) != "" {
		pub, err := parseRSAPublic(publicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
		v.publicKey = pub
	}
	if len(v.secret) == 0 && v.publicKey == nil {
		return nil, errors.New("jwt verifier requires a secret or a public key")
	}
	return v, nil
}

type erpJWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (v *JWTVerifier) validMethods() []string {
	methods := make([]string, 0, 2)
	if len(v.secret) > 0 {
		methods = append(methods, jwt.SigningMethodHS256.Alg())
	}
	if v.publicKey != nil {
		methods = append(methods, jwt.SigningMethodRS256.Alg())
	}
	return methods
}

func (v *JWTVerifier) ValidateToken(_ context.Context, raw string) (ports.AuthClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods(v.validMethods()), jwt.WithLeeway(30 * time.Second), jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	parsed, err := jwt.ParseWithClaims(raw, &erpJWTClaims{}, func(token *jwt.Token) (any, error) {
		switch token.Method.Alg() {
		case jwt.SigningMethodHS256.Alg():
			return v.secret, nil
		case jwt.SigningMethodRS256.Alg():
			return v.publicKey, nil
		default:
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
	}, opts...)
	if err != nil {
		return ports.AuthClaims{}, err
	}
	claims, ok := parsed.Claims.(*erpJWTClaims)
	if !ok || !parsed.Valid {
		return ports.AuthClaims{}, errors.New("invalid token claims")
	}
	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return ports.AuthClaims{}, errors.New("token has no subject")
	}
	return ports.AuthClaims{UserID: userID, Email: claims.Email, Role: claims.Role, Valid: true}, nil
}

// SignHS256 issues a token the verifier accepts. Used by local tooling and
// tests; production tokens come from the authentication service.
func SignHS256(secret, issuer string, claims ports.AuthClaims, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, erpJWTClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString([]byte(secret))
}

func parseRSAPublic(raw string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return nil, errors.New("invalid public PEM")
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}
	keyAny, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := keyAny.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not RSA")
	}
	return key, nil
}

// StaticAuthClient accepts any non-empty token as the configured user.
// Backs AUTH_MODE=none for local development.
type StaticAuthClient struct {
	UserID string
	Role   string
}

func (c StaticAuthClient) ValidateToken(_ context.Context, token string) (ports.AuthClaims, error) {
	if strings.TrimSpace(token) == "" {
		return ports.AuthClaims{}, errors.New("empty token")
	}
	return ports.AuthClaims{UserID: c.UserID, Role: c.Role, Valid: true}, nil
}

var (
	_ ports.AuthClient = (*JWTVerifier)(nil)
	_ ports.AuthClient = StaticAuthClient{}
)
