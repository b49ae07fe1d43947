// Package keyring stores the API key pair outside the config file.
package keyring

import (
	"errors"
	"os"

	gokeyring "github.com/zalando/go-keyring"
)

const (
	// ServiceName namespaces apca entries in the system keychain.
	ServiceName = "markets.alpaca.apca"

	// KeyID names the API key id entry.
	KeyID = "key_id"
	// KeySecretKey names the API secret key entry.
	KeySecretKey = "secret_key"

	// EnvKeyID overrides KeyID, for CI and headless machines.
	EnvKeyID = "APCA_API_KEY_ID"
	// EnvSecretKey overrides KeySecretKey.
	EnvSecretKey = "APCA_API_SECRET_KEY"
)

var (
	// ErrNotFound is returned when a secret is not stored.
	ErrNotFound = errors.New("secret not found")

	// ErrReadOnly is returned by stores the CLI cannot write to.
	ErrReadOnly = errors.New("secret store is read-only")
)

// Store reads and writes secrets addressed by service and key.
type Store interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// SystemStore is the OS keychain: macOS Keychain, the Secret Service on
// Linux or the Windows Credential Manager.
type SystemStore struct{}

// NewSystemStore returns the OS keychain store.
func NewSystemStore() *SystemStore {
	return &SystemStore{}
}

// Get implements Store.
func (s *SystemStore) Get(service, key string) (string, error) {
	v, err := gokeyring.Get(service, key)
	return v, notFound(err)
}

// Set implements Store.
func (s *SystemStore) Set(service, key, value string) error {
	return gokeyring.Set(service, key, value)
}

// Delete implements Store. A missing entry is already deleted.
func (s *SystemStore) Delete(service, key string) error {
	if err := notFound(gokeyring.Delete(service, key)); !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gokeyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// EnvStore serves the key pair from APCA_API_KEY_ID and APCA_API_SECRET_KEY
// when they are set and falls back to the wrapped store otherwise. Writes
// always go to the wrapped store.
type EnvStore struct {
	underlying Store
	getenv     func(string) string
}

// NewEnvStore wraps underlying with the environment overrides.
func NewEnvStore(underlying Store) *EnvStore {
	return &EnvStore{underlying: underlying, getenv: os.Getenv}
}

// Override reports the environment variable currently shadowing key, if
// any.
func (e *EnvStore) Override(key string) (string, bool) {
	var name string
	switch key {
	case KeyID:
		name = EnvKeyID
	case KeySecretKey:
		name = EnvSecretKey
	default:
		return "", false
	}
	if e.getenv(name) == "" {
		return "", false
	}
	return name, true
}

// Get implements Store.
func (e *EnvStore) Get(service, key string) (string, error) {
	if name, ok := e.Override(key); ok {
		return e.getenv(name), nil
	}
	return e.underlying.Get(service, key)
}

// Set implements Store.
func (e *EnvStore) Set(service, key, value string) error {
	return e.underlying.Set(service, key, value)
}

// Delete implements Store.
func (e *EnvStore) Delete(service, key string) error {
	return e.underlying.Delete(service, key)
}

// Overrides lists the environment variables that shadow entries of s.
// Stores without environment overrides report none.
func Overrides(s Store) []string {
	env, ok := s.(*EnvStore)
	if !ok {
		return nil
	}
	var names []string
	for _, key := range []string{KeyID, KeySecretKey} {
		if name, ok := env.Override(key); ok {
			names = append(names, name)
		}
	}
	return names
}
