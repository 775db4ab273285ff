package services

import (
	"errors"
	"time"

	"github.com/Rakhulsr/catalog-api/app/helpers"
	"github.com/golang-jwt/jwt/v5"
)

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"

	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrTokenExpired          = errors.New("token has expired")
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
)

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type tokenClaims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies the two session token kinds. Each kind has
// its own secret, so an access token never verifies as a refresh token.
type TokenService struct {
	secrets map[TokenKind][]byte
	ttls    map[TokenKind]time.Duration
	now     func() time.Time
}

func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = AccessTokenTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = RefreshTokenTTL
	}
	return &TokenService{
		secrets: map[TokenKind][]byte{
			AccessToken:  []byte(cfg.AccessSecret),
			RefreshToken: []byte(cfg.RefreshSecret),
		},
		ttls: map[TokenKind]time.Duration{
			AccessToken:  cfg.AccessTTL,
			RefreshToken: cfg.RefreshTTL,
		},
		now: time.Now,
	}
}

func (s *TokenService) TTL(kind TokenKind) time.Duration {
	return s.ttls[kind]
}

func (s *TokenService) IssueAccessToken(id helpers.Identity) (string, error) {
	return s.issue(id, AccessToken)
}

func (s *TokenService) IssueRefreshToken(id helpers.Identity) (string, error) {
	return s.issue(id, RefreshToken)
}

func (s *TokenService) issue(id helpers.Identity, kind TokenKind) (string, error) {
	secret, ok := s.secrets[kind]
	if !ok {
		return "", errors.New("unknown token kind " + string(kind))
	}
	now := s.now()
	claims := tokenClaims{
		UserID:   id.UserID,
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttls[kind])),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify checks the signature and expiry for the given kind.
func (s *TokenService) Verify(token string, kind TokenKind) (helpers.Identity, error) {
	secret, ok := s.secrets[kind]
	if !ok {
		return helpers.Identity{}, errors.New("unknown token kind " + string(kind))
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return helpers.Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return helpers.Identity{}, ErrTokenSignatureInvalid
		default:
			return helpers.Identity{}, ErrTokenMalformed
		}
	}
	if !parsed.Valid || claims.UserID == 0 {
		return helpers.Identity{}, ErrTokenMalformed
	}

	return helpers.Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
