package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// ErrInvalidToken covers bad signatures, malformed strings and tokens without a subject.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager issues and validates session tokens signed with a process-wide secret.
// Tokens carry no expiry; a token stays usable while it is listed on its user.
type JWTManager struct {
	secret []byte
	now    func() time.Time
}

func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret), now: time.Now}
}

// Issue signs a token whose subject is userID. Persisting it is the caller's job.
func (m *JWTManager) Issue(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  userID,
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(m.now()),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Validate verifies the signature and returns the subject user ID.
func (m *JWTManager) Validate(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Revoke removes token from the user's session list; absent tokens are ignored.
func (m *JWTManager) Revoke(u *entity.User, token string) {
	u.RemoveToken(token)
}

// RevokeAll ends every session of the user.
func (m *JWTManager) RevokeAll(u *entity.User) {
	u.ClearTokens()
}
