package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
)

// SessionConfig holds session token configuration
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// SessionClaims represents the claims carried by a session token
type SessionClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"` // always "session"
	jwt.RegisteredClaims
}

// SessionManager issues and validates cookie-bound session tokens
type SessionManager struct {
	config SessionConfig
}

// NewSessionManager creates a new session manager
func NewSessionManager(config SessionConfig) *SessionManager {
	return &SessionManager{
		config: config,
	}
}

// TTL returns the configured session lifetime
func (m *SessionManager) TTL() time.Duration {
	return m.config.TTL
}

// Issue generates a new session token for the user and returns the signed
// token together with its session ID (JTI), which the revocation store
// keys on.
func (m *SessionManager) Issue(userID uint, email string) (string, string, error) {
	now := time.Now()
	expiresAt := now.Add(m.config.TTL)
	jti := uuid.New().String()

	claims := SessionClaims{
		UserID:    userID,
		Email:     email,
		TokenType: "session",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.config.Issuer,
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(m.config.Secret))
	return signedToken, jti, err
}

// Validate validates a session token and returns its claims
func (m *SessionManager) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != "session" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Expiry returns the expiry time of a token without validating the signature
func (m *SessionManager) Expiry(tokenString string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &SessionClaims{})
	if err != nil {
		return time.Time{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidClaims
	}

	return claims.ExpiresAt.Time, nil
}
