package loginshieldtest

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	stageStart  = "start"
	stageVerify = "verify"
)

// ErrTokenUsed is returned when a verification token is presented twice.
var ErrTokenUsed = errors.New("loginshieldtest: token already used")

type loginClaims struct {
	jwt.RegisteredClaims
	RealmID  string `json:"realmId"`
	IsNewKey bool   `json:"isNewKey,omitempty"`
	Stage    string `json:"stage"`
}

func (s *Server) issueToken(realmID, userID, stage string, isNewKey bool) (string, error) {
	now := time.Now()
	claims := loginClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		RealmID:  realmID,
		IsNewKey: isNewKey,
		Stage:    stage,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) parseToken(token, stage string) (*loginClaims, error) {
	claims := &loginClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Stage != stage {
		return nil, fmt.Errorf("loginshieldtest: expected %s token, got %q", stage, claims.Stage)
	}
	return claims, nil
}

// CompleteLogin plays the browser and the authenticator app: it accepts a
// forward URL returned by a login start and returns the token the service
// would hand back to the realm for verification.
func (s *Server) CompleteLogin(forward string) (string, error) {
	u, err := url.Parse(forward)
	if err != nil {
		return "", err
	}
	claims, err := s.parseToken(u.Query().Get("token"), stageStart)
	if err != nil {
		return "", err
	}
	return s.issueToken(claims.RealmID, claims.Subject, stageVerify, claims.IsNewKey)
}

// IssueVerifyToken returns a verification token for a user without going
// through login start.
func (s *Server) IssueVerifyToken(realmID, userID string) (string, error) {
	return s.issueToken(realmID, userID, stageVerify, false)
}

// consume marks a verification token as used.
func (s *Server) consume(claims *loginClaims) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.used[claims.ID] {
		return ErrTokenUsed
	}
	s.used[claims.ID] = true
	return nil
}
