package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonandersen/apca/internal/keyring"
)

func TestLoadCredentials(t *testing.T) {
	store := keyring.NewMockCredentials("PKTEST1234", "s3cret")

	creds, err := LoadCredentials(store)

	require.NoError(t, err)
	assert.Equal(t, Credentials{KeyID: "PKTEST1234", SecretKey: "s3cret"}, creds)
}

func TestLoadCredentials_Errors(t *testing.T) {
	tests := []struct {
		name           string
		store          keyring.Store
		wantConfigHint bool
		wantErr        string
	}{
		{
			name:           "empty store",
			store:          keyring.NewMockStore(),
			wantConfigHint: true,
		},
		{
			name:           "secret missing",
			store:          keyring.NewMockStore().WithData(keyring.ServiceName, keyring.KeyID, "PKTEST"),
			wantConfigHint: true,
		},
		{
			name:    "keychain locked",
			store:   keyring.NewMockStore().WithGetError(errors.New("keychain locked")),
			wantErr: "failed to retrieve key_id: keychain locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCredentials(tt.store)
			require.Error(t, err)
			if tt.wantConfigHint {
				assert.ErrorIs(t, err, ErrNotConfigured)
				assert.Contains(t, err.Error(), "apca configure")
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestSaveAndClearCredentials(t *testing.T) {
	store := keyring.NewMockStore()

	require.NoError(t, SaveCredentials(store, Credentials{KeyID: "PKNEW", SecretKey: "new-secret"}))
	creds, err := LoadCredentials(store)
	require.NoError(t, err)
	assert.Equal(t, "PKNEW", creds.KeyID)

	require.NoError(t, ClearCredentials(store))
	assert.Equal(t, 0, store.Len())

	// Clearing twice is fine.
	require.NoError(t, ClearCredentials(store))
}

func TestSaveCredentials_Errors(t *testing.T) {
	assert.EqualError(t, SaveCredentials(keyring.NewMockStore(), Credentials{KeyID: "PK"}), "key id and secret key are required")

	store := keyring.NewMockStore().WithSetError(keyring.ErrReadOnly)
	err := SaveCredentials(store, Credentials{KeyID: "PK", SecretKey: "s"})
	assert.ErrorIs(t, err, keyring.ErrReadOnly)
	assert.Contains(t, err.Error(), "failed to store key id")
}

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "***"},
		{"PKTEST1234", "******1234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Mask(tt.in))
	}
	assert.Equal(t, "******1234", Credentials{KeyID: "PKTEST1234"}.Redacted())
}
