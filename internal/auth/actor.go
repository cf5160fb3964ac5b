package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid actor token")

// Actor is the reviewer performing a transition.
type Actor struct {
	ID   string
	Role string
	// Privileged reviewers set placements and may act on rejected entities.
	Privileged bool
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type Authorizer struct {
	secret     []byte
	privileged map[string]bool
}

func NewAuthorizer(secret string, privilegedRoles []string) *Authorizer {
	roles := make(map[string]bool, len(privilegedRoles))
	for _, r := range privilegedRoles {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			roles[r] = true
		}
	}
	return &Authorizer{secret: []byte(secret), privileged: roles}
}

// ActorFor builds an actor from an already trusted id and role.
func (a *Authorizer) ActorFor(id, role string) Actor {
	return Actor{
		ID:         id,
		Role:       role,
		Privileged: a.privileged[strings.ToLower(role)],
	}
}

// ParseActor verifies an HS256 actor token and returns the actor it names.
func (a *Authorizer) ParseActor(token string) (Actor, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Actor{}, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return Actor{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Actor{}, ErrInvalidToken
	}

	return a.ActorFor(claims.Subject, claims.Role), nil
}

// IssueToken signs an actor token. Used by tooling and tests.
func (a *Authorizer) IssueToken(id, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}
