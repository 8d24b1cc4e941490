package jwtutil

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/raisama21/ims/pkg/config"
)

var (
	ErrNoSession      = errors.New("no session cookie")
	ErrInvalidSession = errors.New("invalid session")
)

// Session is the authenticated actor carried by the auth cookie. Role is
// the role held when the session was issued.
type Session struct {
	UserID  uuid.UUID `json:"user_id"`
	GroupID uuid.UUID `json:"group_id"`
	Role    string    `json:"role"`
}

// SessionClaims represents the JWT claims carried by the auth cookie
type SessionClaims struct {
	Session
	jwt.RegisteredClaims
}

// JWTUtil signs and reads session tokens and the cookie that carries them
type JWTUtil struct {
	config config.CookieConfig
	now    func() time.Time
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(cfg config.CookieConfig) *JWTUtil {
	return &JWTUtil{
		config: cfg,
		now:    time.Now,
	}
}

func (j *JWTUtil) maxAge() time.Duration {
	return time.Duration(j.config.MaxAge) * time.Second
}

// GenerateToken creates a signed token for the session
func (j *JWTUtil) GenerateToken(s Session) (string, error) {
	if j.config.Secret == "" {
		return "", errors.New("cookie secret not provided")
	}

	now := j.now()
	claims := SessionClaims{
		Session: s,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.maxAge())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.Secret))
}

// ValidateToken validates and parses the token
func (j *JWTUtil) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.Secret), nil
		},
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}
	if claims.UserID == uuid.Nil || claims.GroupID == uuid.Nil || claims.Role == "" {
		return nil, fmt.Errorf("%w: incomplete claims", ErrInvalidSession)
	}
	return claims, nil
}

// NewCookie returns the auth cookie for the session
func (j *JWTUtil) NewCookie(s Session) (*http.Cookie, error) {
	token, err := j.GenerateToken(s)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     j.config.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   j.config.MaxAge,
		Expires:  j.now().Add(j.maxAge()),
		HttpOnly: true,
		Secure:   j.config.Secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ClearCookie returns a cookie that makes the browser drop the session
func (j *JWTUtil) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     j.config.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   j.config.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SessionFromRequest decodes the auth cookie of r
func (j *JWTUtil) SessionFromRequest(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(j.config.Name)
	if err != nil || cookie.Value == "" {
		return Session{}, ErrNoSession
	}
	claims, err := j.ValidateToken(cookie.Value)
	if err != nil {
		return Session{}, err
	}
	return claims.Session, nil
}
