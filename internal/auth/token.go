package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SignupTokenTTL is the lifetime of the token issued at signup.
	SignupTokenTTL = 7 * 24 * time.Hour
	// SigninTokenTTL is the lifetime of the token issued at signin.
	SigninTokenTTL = 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries only the user id; role is always looked up server-side.
type Claims struct {
	UserID int `json:"id"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue returns a token for userID that expires after ttl.
func (s *TokenService) Issue(userID int, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates tokenStr and returns the user id it was issued for.
func (s *TokenService) Parse(tokenStr string) (int, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || c.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	return c.UserID, nil
}
