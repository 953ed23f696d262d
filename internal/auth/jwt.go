package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTypeAccess = "access"

var ErrInvalidToken = errors.New("invalid token")

// Claims: sub carries the email, id the numeric user id.
type Claims struct {
	UserID    int64  `json:"id"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func (c *Claims) Email() string {
	return c.Subject
}

// Token is the login response body.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Expire      time.Time `json:"expire"`
	UserID      int64     `json:"user_id"`
}

func (t Token) String() string {
	return t.TokenType + " " + t.AccessToken
}

type Manager struct {
	secret    []byte
	method    *jwt.SigningMethodHMAC
	accessTTL time.Duration
	now       func() time.Time
}

// NewManager accepts HS256, HS384 or HS512.
func NewManager(secret, algorithm string, accessTTL time.Duration) (*Manager, error) {
	var method *jwt.SigningMethodHMAC

	switch algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}

	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}

	return &Manager{
		secret:    []byte(secret),
		method:    method,
		accessTTL: accessTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func (m *Manager) GenerateAccessToken(userID int64, email string) (Token, error) {
	now := m.now()
	expire := now.Add(m.accessTTL)

	claims := Claims{
		UserID:    userID,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expire),
		},
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return Token{}, err
	}

	return Token{
		AccessToken: signed,
		TokenType:   "bearer",
		Expire:      expire,
		UserID:      userID,
	}, nil
}

func (m *Manager) VerifyAccessToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != tokenTypeAccess || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
