package keyring

import (
	"errors"
	"testing"
)

func TestStores_ImplementInterface(t *testing.T) {
	var _ Store = (*SystemStore)(nil)
	var _ Store = (*EnvStore)(nil)
	var _ Store = (*MockStore)(nil)
	var _ Store = (*SecretsManagerStore)(nil)
}

func TestEnvStore_GetFromEnvVar(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		envVar string
	}{
		{"key id", KeyID, EnvKeyID},
		{"secret key", KeySecretKey, EnvSecretKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockCredentials("keyring-id", "keyring-secret")
			store := NewEnvStore(mock)
			t.Setenv(tt.envVar, "from-env")

			got, err := store.Get(ServiceName, tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v, want nil", err)
			}
			if got != "from-env" {
				t.Errorf("Get() = %q, want %q", got, "from-env")
			}
		})
	}
}

func TestEnvStore_FallbackToUnderlying(t *testing.T) {
	t.Setenv(EnvKeyID, "")
	t.Setenv(EnvSecretKey, "")
	store := NewEnvStore(NewMockCredentials("keyring-id", "keyring-secret"))

	got, err := store.Get(ServiceName, KeySecretKey)
	if err != nil {
		t.Fatalf("Get() error = %v, want nil", err)
	}
	if got != "keyring-secret" {
		t.Errorf("Get() = %q, want %q", got, "keyring-secret")
	}
}

func TestEnvStore_OtherKeysIgnoreEnv(t *testing.T) {
	mock := NewMockStore().WithData(ServiceName, "other_key", "other-value")
	store := NewEnvStore(mock)
	t.Setenv(EnvSecretKey, "env-secret")

	got, err := store.Get(ServiceName, "other_key")
	if err != nil {
		t.Fatalf("Get() error = %v, want nil", err)
	}
	if got != "other-value" {
		t.Errorf("Get() = %q, want %q", got, "other-value")
	}
}

func TestEnvStore_WritesPassThrough(t *testing.T) {
	mock := NewMockStore()
	store := NewEnvStore(mock)

	if err := store.Set(ServiceName, KeyID, "new-id"); err != nil {
		t.Fatalf("Set() error = %v, want nil", err)
	}
	if got, _ := mock.Get(ServiceName, KeyID); got != "new-id" {
		t.Errorf("underlying Get() = %q, want %q", got, "new-id")
	}

	if err := store.Delete(ServiceName, KeyID); err != nil {
		t.Fatalf("Delete() error = %v, want nil", err)
	}
	if _, err := mock.Get(ServiceName, KeyID); !errors.Is(err, ErrNotFound) {
		t.Errorf("underlying Get() after Delete() error = %v, want ErrNotFound", err)
	}
}

func TestEnvStore_Override(t *testing.T) {
	env := map[string]string{EnvSecretKey: "from-env"}
	store := &EnvStore{underlying: NewMockStore(), getenv: func(k string) string { return env[k] }}

	if _, ok := store.Override(KeyID); ok {
		t.Error("Override(KeyID) reported an unset variable")
	}
	name, ok := store.Override(KeySecretKey)
	if !ok || name != EnvSecretKey {
		t.Errorf("Override(KeySecretKey) = %q, %v, want %q, true", name, ok, EnvSecretKey)
	}
	if _, ok := store.Override("other_key"); ok {
		t.Error("Override() reported a key without an environment variable")
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv(EnvKeyID, "PKENV")
	t.Setenv(EnvSecretKey, "secret")

	got := Overrides(NewEnvStore(NewMockStore()))
	if len(got) != 2 || got[0] != EnvKeyID || got[1] != EnvSecretKey {
		t.Errorf("Overrides() = %v, want [%s %s]", got, EnvKeyID, EnvSecretKey)
	}
	if got := Overrides(NewMockStore()); got != nil {
		t.Errorf("Overrides(MockStore) = %v, want nil", got)
	}
}
