package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"evaluation/internal/session"
)

// Token is a signed access token and its expiry.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Claims represents JWT payload.
type Claims struct {
	Role      session.Role `json:"role"`
	StudentID int          `json:"student_id,omitempty"`
	Name      string       `json:"name"`
	jwt.RegisteredClaims
}

// User converts the claims back into the logged in user.
func (c Claims) User() session.User {
	return session.User{Role: c.Role, StudentID: c.StudentID, Name: c.Name}
}

// CanRead reports whether the holder may see the records of studentID.
// Teachers see everyone, students only themselves.
func (c Claims) CanRead(studentID int) bool {
	return c.Role == session.RoleTeacher || (c.Role == session.RoleStudent && c.StudentID == studentID)
}

func subject(u session.User) string {
	if u.Role == session.RoleStudent {
		return "student:" + strconv.Itoa(u.StudentID)
	}
	return "teacher:" + u.Name
}

// Issue signs an access token for u.
func Issue(u session.User, issuer, key string, ttl time.Duration) (Token, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := Claims{
		Role:      u.Role,
		StudentID: u.StudentID,
		Name:      u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject(u),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, ExpiresAt: exp}, nil
}

// Parse validates a token and returns claims.
func Parse(tokenStr, key, issuer string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(key), nil
	})
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if issuer != "" && claims.Issuer != issuer {
		return Claims{}, errors.New("issuer mismatch")
	}
	return *claims, nil
}
