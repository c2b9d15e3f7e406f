package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"backoffice-service/internal/model"
)

const (
	CookieName = "auth_token"
	TokenTTL   = 4 * time.Hour
)

var ErrInvalidRole = errors.New("token role is not recognised")

type Claims struct {
	UserID uuid.UUID      `json:"userId"`
	Role   model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Parser signs and validates HS256 session tokens.
type Parser struct {
	secret []byte
	now    func() time.Time
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret), now: time.Now}
}

// WithClock overrides the time source used for issuing and validating tokens.
func (p *Parser) WithClock(now func() time.Time) *Parser {
	p.now = now
	return p
}

func (p *Parser) Issue(userID uuid.UUID, role model.UserRole) (string, error) {
	issuedAt := p.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (p *Parser) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.UserID == uuid.Nil {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if !claims.Role.Valid() {
		return nil, ErrInvalidRole
	}

	return claims, nil
}
