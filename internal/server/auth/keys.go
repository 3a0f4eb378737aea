// Package auth implements the credential and token primitives: bcrypt
// password hashing, signing key material, and the dual-key JWT manager.
package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// Keys holds the immutable signing material loaded once at startup:
// an RSA pair for access tokens and an HMAC secret for refresh tokens.
// The two token kinds use independent key material on purpose, so a leak
// of one secret cannot be used to forge the other kind of token.
type Keys struct {
	private       *rsa.PrivateKey
	public        *rsa.PublicKey
	refreshSecret []byte
}

// NewKeys builds Keys from already-parsed material. The public key may be
// nil, in which case it is derived from the private key.
func NewKeys(private *rsa.PrivateKey, public *rsa.PublicKey, refreshSecret []byte) (*Keys, error) {
	if private == nil {
		return nil, errors.New("private key is required")
	}
	if len(refreshSecret) == 0 {
		return nil, errors.New("refresh secret is required")
	}
	if public == nil {
		public = &private.PublicKey
	}
	return &Keys{private: private, public: public, refreshSecret: refreshSecret}, nil
}

// LoadKeys reads the RSA private key from a PEM file and combines it with
// the refresh-signing secret. Key material always comes from external
// configuration, never from source.
func LoadKeys(privateKeyPath string, refreshSecret string) (*Keys, error) {
	pem, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("error reading private key: %w", err)
	}
	private, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("error parsing private key: %w", err)
	}
	return NewKeys(private, nil, []byte(refreshSecret))
}
