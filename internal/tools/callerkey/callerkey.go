// Package callerkey generates the ed25519 keypair used to sign and verify
// crowdfund caller tokens.
package callerkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	privateKeyEnv = "CROWDFUND_CALLER_PRIVATE_KEY"
	publicKeyEnv  = "CROWDFUND_CALLER_PUBLIC_KEY"
)

// KeyPair holds base64 (raw std) encoded caller token keys.
type KeyPair struct {
	PrivateKey string
	PublicKey  string
}

// Generate creates a caller keypair from reader, or crypto/rand when nil.
func Generate(reader io.Reader) (KeyPair, error) {
	if reader == nil {
		reader = rand.Reader
	}
	publicKey, privateKey, err := ed25519.GenerateKey(reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate caller key: %w", err)
	}
	return KeyPair{
		PrivateKey: base64.RawStdEncoding.EncodeToString(privateKey),
		PublicKey:  base64.RawStdEncoding.EncodeToString(publicKey),
	}, nil
}

// Run generates a caller keypair and writes shell exports to out.
// The server only needs the public key; crowdfundctl needs the private key.
func Run(out io.Writer, reader io.Reader) error {
	if out == nil {
		return errors.New("output is required")
	}
	pair, err := Generate(reader)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "export %s=%s\n", privateKeyEnv, pair.PrivateKey); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "export %s=%s\n", publicKeyEnv, pair.PublicKey); err != nil {
		return err
	}
	return nil
}
