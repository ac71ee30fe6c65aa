package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fieldforce-backend/internal/domain"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// MemberClaims defines the standard claims for our application
type MemberClaims struct {
	MemberID int32       `json:"member_id"`
	Email    string      `json:"email,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
	Type     TokenType   `json:"type"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateAccessToken(memberID int32, email string, role domain.Role) (string, error)
	GenerateRefreshToken(memberID int32, email string) (string, error)
	ValidateToken(tokenString string) (*MemberClaims, error)
}

type tokenManager struct {
	secret       []byte
	accessExpiry time.Duration
}

func NewTokenManager(secret string, accessExpiryMinutes int) TokenManager {
	if accessExpiryMinutes <= 0 {
		accessExpiryMinutes = 60
	}
	return &tokenManager{
		secret:       []byte(secret),
		accessExpiry: time.Duration(accessExpiryMinutes) * time.Minute,
	}
}

func (m *tokenManager) GenerateAccessToken(memberID int32, email string, role domain.Role) (string, error) {
	claims := MemberClaims{
		MemberID: memberID,
		Email:    email,
		Role:     role,
		Type:     TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(memberID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fieldforce-backend",
			Audience:  jwt.ClaimStrings{"api-access"},
			ID:        generateJTI(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) GenerateRefreshToken(memberID int32, email string) (string, error) {
	claims := MemberClaims{
		MemberID: memberID,
		Email:    email,
		Type:     TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(memberID)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * 7 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fieldforce-backend",
			Audience:  jwt.ClaimStrings{"token-refresh"},
			ID:        generateJTI(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*MemberClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &MemberClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*MemberClaims); ok && token.Valid {
		if claims.MemberID == 0 && claims.Subject != "" {
			id, _ := strconv.Atoi(claims.Subject)
			claims.MemberID = int32(id)
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// Simple unique ID generator
func generateJTI() string {
	return strconv.FormatInt(time.Now().UnixNano(), 16)
}
