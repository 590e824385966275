// Package session issues and verifies signed session tokens.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ecodeli/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalid is returned for malformed, forged or misused tokens.
	ErrInvalid = errors.New("invalid session token")
	// ErrExpired is returned for well-formed tokens past their expiry.
	ErrExpired = errors.New("session token expired")
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

// Session is the authenticated caller attached to a request.
type Session struct {
	UserID    int64       `json:"user_id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// HasRole reports whether the session role is one of roles.
func (s *Session) HasRole(roles ...domain.Role) bool {
	if s == nil {
		return false
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

// TokenPair is returned on login, registration and refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	Type  string      `json:"typ"`
	jwt.RegisteredClaims
}

// Manager signs HS256 tokens with a shared secret.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewManager constructs a Manager.
func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Issue creates an access/refresh pair for u.
func (m *Manager) Issue(u *domain.User) (TokenPair, error) {
	if u == nil {
		return TokenPair{}, fmt.Errorf("issue token: nil user")
	}
	now := m.now()
	access, err := m.sign(u.ID, u.Email, u.Role, tokenAccess, now, m.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.sign(u.ID, u.Email, u.Role, tokenRefresh, now, m.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(m.accessTTL).UTC(),
	}, nil
}

// Parse verifies an access token.
func (m *Manager) Parse(token string) (*Session, error) {
	return m.parse(token, tokenAccess)
}

// Refresh verifies a refresh token and issues a fresh pair.
func (m *Manager) Refresh(refreshToken string) (TokenPair, *Session, error) {
	s, err := m.parse(refreshToken, tokenRefresh)
	if err != nil {
		return TokenPair{}, nil, err
	}
	pair, err := m.Issue(&domain.User{ID: s.UserID, Email: s.Email, Role: s.Role})
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, s, nil
}

func (m *Manager) sign(userID int64, email string, role domain.Role, typ string, now time.Time, ttl time.Duration) (string, error) {
	c := claims{
		Email: email,
		Role:  role,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (m *Manager) parse(token, typ string) (*Session, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !parsed.Valid || c.Type != typ || !c.Role.Valid() || c.ExpiresAt == nil {
		return nil, ErrInvalid
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalid
	}
	return &Session{
		UserID:    id,
		Email:     c.Email,
		Role:      c.Role,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

type ctxKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
