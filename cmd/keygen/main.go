// Command keygen produces the key material a fresh deployment needs: the
// RSA keypair that signs and verifies access tokens, and a random shared
// secret for the refresh-token signer. The private key is written under a
// certs directory next to the working directory; the secret is printed so
// the operator can place it into the environment.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dsmirnov/authkeeper/internal/cryptox"
	"github.com/dsmirnov/authkeeper/internal/filex"
)

func main() {

	dir := flag.String("d", "certs", "directory for generated keys")
	bits := flag.Int("b", 2048, "RSA key size in bits")
	flag.Parse()

	certsDir, err := filex.EnsureSubDir(*dir)
	if err != nil {
		log.Fatalf("error preparing key directory: %v", err)
	}

	key, err := cryptox.GenerateSigningKey(*bits)
	if err != nil {
		log.Fatalf("error generating signing key: %v", err)
	}

	privatePath := filepath.Join(certsDir, "private.pem")
	if err := os.WriteFile(privatePath, cryptox.EncodePrivateKeyPEM(key), 0o600); err != nil {
		log.Fatalf("error writing private key: %v", err)
	}

	publicPEM, err := cryptox.EncodePublicKeyPEM(&key.PublicKey)
	if err != nil {
		log.Fatalf("error encoding public key: %v", err)
	}
	publicPath := filepath.Join(certsDir, "public.pem")
	if err := os.WriteFile(publicPath, publicPEM, 0o644); err != nil {
		log.Fatalf("error writing public key: %v", err)
	}

	secret, err := cryptox.MakeRandHexString(32)
	if err != nil {
		log.Fatalf("error generating refresh secret: %v", err)
	}

	fmt.Printf("private key: %s\n", privatePath)
	fmt.Printf("public key:  %s\n", publicPath)
	fmt.Printf("refresh token secret (set REFRESH_TOKEN_SECRET):\n%s\n", secret)
}
