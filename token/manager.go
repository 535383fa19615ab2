package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalid covers malformed tokens, bad signatures, and unsupported
	// algorithms.
	ErrInvalid = errors.New("token: invalid")
	// ErrExpired signals a structurally valid, correctly signed token past
	// its expiry. Parse still returns the claims alongside it.
	ErrExpired = errors.New("token: expired")
)

// Config configures a [Manager].
type Config struct {
	// Secret is the HS256 signing key. Required.
	Secret []byte
	// Issuer is stamped into the iss claim when non-empty.
	Issuer string
	// AccessTTL and RefreshTTL are the token lifetimes.
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims are the decoded contents of an engine token. Access tokens carry
// Email and Role; refresh tokens carry only the registered claims.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into the numeric member ID.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalid
	}
	return id, nil
}

// Manager mints and parses tokens. Safe for concurrent use.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a Manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token: secret required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token: invalid TTL configuration")
	}
	return &Manager{config: cfg}, nil
}

// RefreshTTL reports the configured refresh-token lifetime; the engine uses
// it to size the refresh record's store TTL.
func (m *Manager) RefreshTTL() time.Duration {
	return m.config.RefreshTTL
}

// CreateAccess mints an access token with subject userID and email/role
// claims, expiring after the configured access lifetime.
func (m *Manager) CreateAccess(userID int64, email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
}

// CreateRefresh mints a refresh token carrying only the subject, expiring
// after the configured refresh lifetime.
func (m *Manager) CreateRefresh(userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.RefreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
}

// Parse verifies the signature and validity window of tokenStr.
//
// A well-signed but expired token returns its claims together with
// [ErrExpired]. Every other failure returns nil claims and [ErrInvalid]:
// claims that fail signature verification must never reach the caller.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	}, options...)
	if err == nil {
		return claims, nil
	}

	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, ErrInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		// Signature verified; only the validity window failed.
		return claims, ErrExpired
	default:
		return nil, ErrInvalid
	}
}
