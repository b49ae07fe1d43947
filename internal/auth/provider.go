// Package auth resolves the API key pair from the configured secret store.
package auth

import (
	"context"
	"fmt"

	"github.com/jonandersen/apca/internal/config"
	"github.com/jonandersen/apca/internal/keyring"
)

// newSecretsManagerStore is swapped out in tests.
var newSecretsManagerStore = func(ctx context.Context, region, secretID string) (keyring.Store, error) {
	return keyring.NewSecretsManagerStore(ctx, region, secretID)
}

// StoreFor returns the secret store selected by cfg.CredentialsSource.
// Environment variables always take precedence over the chosen store.
func StoreFor(ctx context.Context, cfg *config.Config) (keyring.Store, error) {
	switch cfg.CredentialsSource {
	case "", config.SourceKeyring:
		return keyring.NewEnvStore(keyring.NewSystemStore()), nil
	case config.SourceAWS:
		if cfg.AWSSecretID == "" {
			return nil, fmt.Errorf("aws_secret_id is required when credentials_source is %q", config.SourceAWS)
		}
		sm, err := newSecretsManagerStore(ctx, cfg.AWSRegion, cfg.AWSSecretID)
		if err != nil {
			return nil, fmt.Errorf("failed to init secrets manager: %w", err)
		}
		return keyring.NewEnvStore(sm), nil
	default:
		return nil, fmt.Errorf("unknown credentials_source %q", cfg.CredentialsSource)
	}
}
