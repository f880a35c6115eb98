package jwtadapter

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"locker/contexts/enterprise-management/membership-service/ports"
)

// Tokens signs invitation claims as HS256 JWTs.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) Tokens {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return Tokens{secret: []byte(secret), ttl: ttl}
}

type invitationClaims struct {
	MemberID     string `json:"member_id"`
	EnterpriseID string `json:"enterprise_id"`
	Email        string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

func (t Tokens) Sign(claims ports.InvitationClaims) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, invitationClaims{
		MemberID:     claims.MemberID,
		EnterpriseID: claims.EnterpriseID,
		Email:        claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.MemberID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})
	return token.SignedString(t.secret)
}

func (t Tokens) Parse(raw string) (ports.InvitationClaims, error) {
	var claims invitationClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil {
		return ports.InvitationClaims{}, err
	}
	if !token.Valid {
		return ports.InvitationClaims{}, errors.New("invalid invitation token")
	}
	return ports.InvitationClaims{
		MemberID:     claims.MemberID,
		EnterpriseID: claims.EnterpriseID,
		Email:        claims.Email,
	}, nil
}
