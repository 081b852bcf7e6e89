package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID uint64    `json:"uid"`
	Type   TokenType `json:"typ"`
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh,omitempty"`
	ExpiresIn int64  `json:"expires_in"`
}

// TokenService issues and verifies HS256 signed bearer tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue creates a fresh access and refresh token for the user.
func (s *TokenService) Issue(userID uint64) (*TokenPair, error) {
	access, err := s.sign(userID, AccessToken, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, RefreshToken, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		Access:    access,
		Refresh:   refresh,
		ExpiresIn: int64(s.accessTTL.Seconds()),
	}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *TokenService) Refresh(refreshToken string) (*TokenPair, error) {
	userID, err := s.parse(refreshToken, RefreshToken)
	if err != nil {
		return nil, err
	}
	access, err := s.sign(userID, AccessToken, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, ExpiresIn: int64(s.accessTTL.Seconds())}, nil
}

// ParseAccess returns the user id carried by a valid access token.
func (s *TokenService) ParseAccess(token string) (uint64, error) {
	return s.parse(token, AccessToken)
}

func (s *TokenService) sign(userID uint64, typ TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Type:   typ,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenService) parse(token string, want TokenType) (uint64, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !parsed.Valid || !ok || claims.Type != want || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
