// Package cryptox provides key-material helpers: RSA signing-key generation
// and PEM encoding for the access-token keypair, random secrets for the
// refresh-token signer, and wiping of sensitive buffers.
package cryptox

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
)

// GenerateSigningKey creates a new RSA private key of the given bit size.
func GenerateSigningKey(bits int) (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, bits)
}

// EncodePrivateKeyPEM renders the key in PKCS#1 PEM form, the format the
// server loads at startup.
func EncodePrivateKeyPEM(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

// EncodePublicKeyPEM renders the public half in PKIX PEM form, suitable for
// handing to services that only need to verify access tokens.
func EncodePublicKeyPEM(key *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// MakeRandHexString generates a random hexadecimal string from size random
// bytes; the result is twice as long as size. It is used to mint the shared
// secret that signs refresh tokens.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray overwrites the slice with zeros. Useful for passwords and
// key material that should not linger in memory after use.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
