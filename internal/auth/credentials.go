package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonandersen/apca/internal/keyring"
)

// ErrNotConfigured is returned when no key pair can be found.
var ErrNotConfigured = errors.New("CLI not configured. Run: apca configure\nOr set APCA_API_KEY_ID and APCA_API_SECRET_KEY environment variables")

// Credentials is the API key pair sent with every request.
type Credentials struct {
	KeyID     string
	SecretKey string
}

// Redacted returns the key id with all but its last four characters masked.
func (c Credentials) Redacted() string {
	return Mask(c.KeyID)
}

// Mask hides all but the last four characters of s.
func Mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

// LoadCredentials reads both halves of the key pair from store.
func LoadCredentials(store keyring.Store) (Credentials, error) {
	keyID, err := get(store, keyring.KeyID)
	if err != nil {
		return Credentials{}, err
	}
	secret, err := get(store, keyring.KeySecretKey)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{KeyID: keyID, SecretKey: secret}, nil
}

func get(store keyring.Store, key string) (string, error) {
	v, err := store.Get(keyring.ServiceName, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotConfigured
		}
		return "", fmt.Errorf("failed to retrieve %s: %w", key, err)
	}
	if v == "" {
		return "", ErrNotConfigured
	}
	return v, nil
}

// SaveCredentials writes the key pair to store.
func SaveCredentials(store keyring.Store, creds Credentials) error {
	if creds.KeyID == "" || creds.SecretKey == "" {
		return errors.New("key id and secret key are required")
	}
	if err := store.Set(keyring.ServiceName, keyring.KeyID, creds.KeyID); err != nil {
		return fmt.Errorf("failed to store key id: %w", err)
	}
	if err := store.Set(keyring.ServiceName, keyring.KeySecretKey, creds.SecretKey); err != nil {
		return fmt.Errorf("failed to store secret key: %w", err)
	}
	return nil
}

// ClearCredentials removes the key pair from store.
func ClearCredentials(store keyring.Store) error {
	for _, key := range []string{keyring.KeyID, keyring.KeySecretKey} {
		if err := store.Delete(keyring.ServiceName, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}
