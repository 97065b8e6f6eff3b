package httpapi

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"tokoku/gateway/internal/domain"
)

// TokenVerifier checks bearer tokens issued by the upstream ERP's auth
// service. The gateway never issues tokens of its own in production; Issue
// exists for dev mode and tests.
type TokenVerifier struct {
	secret []byte
}

type gatewayClaims struct {
	jwtlib.RegisteredClaims
	Role string `json:"role"`
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

func (v *TokenVerifier) Verify(tokenStr string) (domain.Actor, error) {
	claims := &gatewayClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return domain.Actor{}, errors.New("invalid or expired token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Actor{}, errors.New("invalid token subject")
	}
	return domain.Actor{Username: sub, Role: claims.Role}, nil
}

// Issue signs a short-lived token with the same claims shape the upstream
// uses.
func (v *TokenVerifier) Issue(username, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := gatewayClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			Issuer:    "tokoku",
		},
		Role: role,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
