package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dsmirnov/authkeeper/internal/common"
	"github.com/dsmirnov/authkeeper/internal/server/models"
)

// AccessClaims is the payload of a short-lived access token. Access tokens
// are signed with the RSA private key (RS256) so any holder of the public
// key can verify them statelessly, without a store round-trip.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// RefreshClaims is the payload of a long-lived refresh token. RecordID binds
// the token to exactly one stored session row; that binding is what makes
// revocation and rotation possible even though the signature is
// self-verifying.
type RefreshClaims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	RecordID string `json:"id"`
}

// UserID parses the subject claim back into the numeric principal id.
func (c *AccessClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidToken
	}
	return id, nil
}

// UserID parses the subject claim back into the numeric principal id.
func (c *RefreshClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, common.ErrInvalidToken
	}
	return id, nil
}

// TokenManager issues and verifies both token kinds. It is constructed once
// at startup with immutable key material and is safe for concurrent use.
type TokenManager struct {
	keys       *Keys
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager wires key material with issuer and lifetime settings.
func NewTokenManager(keys *Keys, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		keys:       keys,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccessToken signs an RS256 access token for the principal. The
// numeric id is carried as a string subject and must round-trip exactly.
func (m *TokenManager) IssueAccessToken(userID int64, role models.Role) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
		Role: role.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(m.keys.private)
}

// IssueRefreshToken signs an HS256 refresh token bound to the given session
// record id.
func (m *TokenManager) IssueRefreshToken(userID int64, role models.Role, recordID string) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTTL)),
		},
		Role:     role.String(),
		RecordID: recordID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.keys.refreshSecret)
}

// VerifyAccessToken validates signature, algorithm, issuer, and expiry of an
// access token and returns its claims. An unverified payload is never
// returned, even partially.
func (m *TokenManager) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.keys.public, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// VerifyRefreshToken validates a refresh token's signature, algorithm,
// issuer, and expiry, and requires the record-id claim to be present.
// Revocation is a separate, stateful check against the token store.
func (m *TokenManager) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.keys.refreshSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.RecordID == "" {
		return nil, common.ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

func mapTokenError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return common.ErrTokenExpired
	}
	return common.ErrInvalidToken
}
