// Package callerauth signs and verifies caller identity tokens.
//
// A caller token is an EdDSA-signed JWT whose subject is the account the
// ledger treats as the caller of every mutating operation.
package callerauth

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	// DefaultIssuer is used when CROWDFUND_CALLER_ISSUER is unset.
	DefaultIssuer = "crowdfund-local"
	// DefaultAudience is used when CROWDFUND_CALLER_AUDIENCE is unset.
	DefaultAudience = "crowdfund"
	// DefaultTTL bounds how long issued tokens stay valid.
	DefaultTTL = time.Hour
)

// ErrPublicKeyNotConfigured reports that no verification key is set.
var ErrPublicKeyNotConfigured = errors.New("CROWDFUND_CALLER_PUBLIC_KEY is required")

// callerEnv holds raw env values before post-parse validation.
type callerEnv struct {
	Issuer     string        `env:"CROWDFUND_CALLER_ISSUER" envDefault:"crowdfund-local"`
	Audience   string        `env:"CROWDFUND_CALLER_AUDIENCE" envDefault:"crowdfund"`
	PublicKey  string        `env:"CROWDFUND_CALLER_PUBLIC_KEY"`
	PrivateKey string        `env:"CROWDFUND_CALLER_PRIVATE_KEY"`
	TTL        time.Duration `env:"CROWDFUND_CALLER_TOKEN_TTL" envDefault:"1h"`
}

// VerifierConfig defines how caller tokens are verified.
type VerifierConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// IssuerConfig defines how caller tokens are signed.
type IssuerConfig struct {
	Issuer   string
	Audience string
	Key      ed25519.PrivateKey
	TTL      time.Duration
	Now      func() time.Time
}

// LoadVerifierConfigFromEnv reads caller token verification configuration.
func LoadVerifierConfigFromEnv(now func() time.Time) (VerifierConfig, error) {
	var raw callerEnv
	if err := env.Parse(&raw); err != nil {
		return VerifierConfig{}, fmt.Errorf("parse caller auth env: %w", err)
	}
	publicKey := strings.TrimSpace(raw.PublicKey)
	if publicKey == "" {
		return VerifierConfig{}, ErrPublicKeyNotConfigured
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return VerifierConfig{}, fmt.Errorf("decode caller public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return VerifierConfig{}, fmt.Errorf("caller public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return VerifierConfig{
		Issuer:   strings.TrimSpace(raw.Issuer),
		Audience: strings.TrimSpace(raw.Audience),
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// LoadIssuerConfigFromEnv reads caller token signing configuration.
func LoadIssuerConfigFromEnv(now func() time.Time) (IssuerConfig, error) {
	var raw callerEnv
	if err := env.Parse(&raw); err != nil {
		return IssuerConfig{}, fmt.Errorf("parse caller auth env: %w", err)
	}
	privateKey := strings.TrimSpace(raw.PrivateKey)
	if privateKey == "" {
		return IssuerConfig{}, fmt.Errorf("CROWDFUND_CALLER_PRIVATE_KEY is required")
	}
	keyBytes, err := decodeBase64(privateKey)
	if err != nil {
		return IssuerConfig{}, fmt.Errorf("decode caller private key: %w", err)
	}
	if len(keyBytes) != ed25519.PrivateKeySize {
		return IssuerConfig{}, fmt.Errorf("caller private key must be %d bytes", ed25519.PrivateKeySize)
	}
	if raw.TTL <= 0 {
		return IssuerConfig{}, fmt.Errorf("CROWDFUND_CALLER_TOKEN_TTL must be positive")
	}
	if now == nil {
		now = time.Now
	}
	return IssuerConfig{
		Issuer:   strings.TrimSpace(raw.Issuer),
		Audience: strings.TrimSpace(raw.Audience),
		Key:      ed25519.PrivateKey(keyBytes),
		TTL:      raw.TTL,
		Now:      now,
	}, nil
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
