package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonandersen/apca/internal/config"
	"github.com/jonandersen/apca/internal/keyring"
	"github.com/jonandersen/apca/pkg/alpaca"
)

// mockPasswordReader is a test double for password input.
type mockPasswordReader struct {
	password   string
	err        error
	isTerminal bool
	readCalled bool
}

func newMockPasswordReader(password string, isTerminal bool) *mockPasswordReader {
	return &mockPasswordReader{
		password:   password,
		isTerminal: isTerminal,
	}
}

func (m *mockPasswordReader) WithError(err error) *mockPasswordReader {
	m.err = err
	return m
}

func (m *mockPasswordReader) ReadPassword() (string, error) {
	m.readCalled = true
	if m.err != nil {
		return "", m.err
	}
	return m.password, nil
}

func (m *mockPasswordReader) IsTerminal() bool {
	return m.isTerminal
}

// mockPrompt is a test double for interactive menu prompts.
type mockPrompt struct {
	selections []int    // Which option to select for each call
	callIndex  int      // Current call index
	lines      []string // Lines to return for ReadLine calls
	lineIndex  int      // Current line index
}

func newMockPrompt(selections ...int) *mockPrompt {
	return &mockPrompt{selections: selections}
}

func (m *mockPrompt) WithLines(lines ...string) *mockPrompt {
	m.lines = lines
	return m
}

func (m *mockPrompt) SelectOption(options []string) (int, error) {
	if m.callIndex >= len(m.selections) {
		return 0, errors.New("no more mock selections")
	}
	idx := m.selections[m.callIndex]
	m.callIndex++
	return idx, nil
}

func (m *mockPrompt) ReadLine(prompt string) (string, error) {
	if m.lineIndex >= len(m.lines) {
		return "", nil // Default to empty/skip
	}
	line := m.lines[m.lineIndex]
	m.lineIndex++
	return line, nil
}

// accountServer answers GET /v2/account, accepting only the given key pair.
func accountServer(t *testing.T, keyID, secret string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/account" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get(alpaca.HeaderKeyID) != keyID || r.Header.Get(alpaca.HeaderSecretKey) != secret {
			writeJSON(w, http.StatusUnauthorized, `{"code": 40110000, "message": "request is not authorized"}`)
			return
		}
		writeJSON(w, http.StatusOK, accountJSON)
	}))
	t.Cleanup(server.Close)
	return server
}

func runConfigureCmd(t *testing.T, opts configureOptions, args ...string) (string, error) {
	t.Helper()
	cmd := newConfigureCmd(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigureCmd_Success(t *testing.T) {
	server := accountServer(t, "PKTEST1234", "test-secret-key")
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	store := keyring.NewMockStore()
	pwReader := newMockPasswordReader("test-secret-key", true)

	out, err := runConfigureCmd(t, configureOptions{
		configPath:     configPath,
		baseURL:        server.URL,
		store:          store,
		passwordReader: pwReader,
		prompt:         newMockPrompt().WithLines("PKTEST1234"),
	})

	require.NoError(t, err)
	assert.Contains(t, out, "Enter your secret key:")
	assert.Contains(t, out, "Verified account PA39J45DA4AZ (ACTIVE, paper)")
	assert.Contains(t, out, "Configuration saved successfully!")
	assert.True(t, pwReader.readCalled)

	keyID, err := store.Get(keyring.ServiceName, keyring.KeyID)
	require.NoError(t, err)
	assert.Equal(t, "PKTEST1234", keyID)
	secret, err := store.Get(keyring.ServiceName, keyring.KeySecretKey)
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key", secret)

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, alpaca.PaperURL, cfg.APIBaseURL)
}

func TestConfigureCmd_LiveFlag(t *testing.T) {
	server := accountServer(t, "AKTEST1234", "live-secret")
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	// --live starts a fresh setup even when keys already exist.
	store := keyring.NewMockCredentials("PKOLD", "old-secret")

	out, err := runConfigureCmd(t, configureOptions{
		configPath:     configPath,
		baseURL:        server.URL,
		store:          store,
		passwordReader: newMockPasswordReader("live-secret", true),
		prompt:         newMockPrompt().WithLines("AKTEST1234"),
	}, "--live")

	require.NoError(t, err)
	assert.Contains(t, out, "live)")

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, alpaca.LiveURL, cfg.APIBaseURL)
}

func TestConfigureCmd_InvalidKeys(t *testing.T) {
	server := accountServer(t, "PKTEST1234", "right-secret")
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	store := keyring.NewMockStore()

	_, err := runConfigureCmd(t, configureOptions{
		configPath:     configPath,
		baseURL:        server.URL,
		store:          store,
		passwordReader: newMockPasswordReader("wrong-secret", true),
		prompt:         newMockPrompt().WithLines("PKTEST1234"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to validate API keys")
	assert.Contains(t, err.Error(), "request is not authorized")
	assert.Equal(t, 0, store.Len(), "nothing is stored when verification fails")

	_, statErr := os.Stat(configPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigureCmd_InputErrors(t *testing.T) {
	tests := []struct {
		name     string
		keyID    string
		pwReader *mockPasswordReader
		wantErr  string
	}{
		{"empty key id", "", newMockPasswordReader("secret", true), "key id cannot be empty"},
		{"empty secret", "PKTEST1234", newMockPasswordReader("   ", true), "secret key cannot be empty"},
		{"read error", "PKTEST1234", newMockPasswordReader("", true).WithError(errors.New("tty closed")), "failed to read secret key"},
		{"not a terminal", "PKTEST1234", newMockPasswordReader("secret", false), "requires an interactive terminal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runConfigureCmd(t, configureOptions{
				configPath:     filepath.Join(t.TempDir(), "config.yaml"),
				baseURL:        "http://127.0.0.1:0",
				store:          keyring.NewMockStore(),
				passwordReader: tt.pwReader,
				prompt:         newMockPrompt().WithLines(tt.keyID),
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigureCmd_KeyringSetError(t *testing.T) {
	server := accountServer(t, "PKTEST1234", "test-secret")

	_, err := runConfigureCmd(t, configureOptions{
		configPath:     filepath.Join(t.TempDir(), "config.yaml"),
		baseURL:        server.URL,
		store:          keyring.NewMockStore().WithSetError(errors.New("keychain locked")),
		passwordReader: newMockPasswordReader("test-secret", true),
		prompt:         newMockPrompt().WithLines("PKTEST1234"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store key id")
	assert.Contains(t, err.Error(), "keychain locked")
}

func TestConfigureCmd_ReconfigureNewKeys(t *testing.T) {
	server := accountServer(t, "PKNEW5678", "new-secret")
	store := keyring.NewMockCredentials("PKOLD1234", "old-secret")

	out, err := runConfigureCmd(t, configureOptions{
		configPath:     filepath.Join(t.TempDir(), "config.yaml"),
		baseURL:        server.URL,
		store:          store,
		passwordReader: newMockPasswordReader("new-secret", true),
		prompt:         newMockPrompt(0).WithLines("PKNEW5678"),
	})

	require.NoError(t, err)
	assert.Contains(t, out, "already configured")
	keyID, _ := store.Get(keyring.ServiceName, keyring.KeyID)
	assert.Equal(t, "PKNEW5678", keyID)
}

func TestConfigureCmd_ReconfigureView(t *testing.T) {
	pwReader := newMockPasswordReader("", true)

	out, err := runConfigureCmd(t, configureOptions{
		configPath:     filepath.Join(t.TempDir(), "config.yaml"),
		store:          keyring.NewMockCredentials("PKTEST1234", "secret"),
		passwordReader: pwReader,
		prompt:         newMockPrompt(1),
	})

	require.NoError(t, err)
	assert.Contains(t, out, "Current Configuration:")
	assert.Contains(t, out, "API key id: ******1234")
	assert.NotContains(t, out, "PKTEST1234")
	assert.Contains(t, out, "Environment: paper")
	assert.Contains(t, out, "Credentials source: keyring")
	assert.False(t, pwReader.readCalled)
}

func TestConfigureCmd_ReconfigureViewShowsEnvOverride(t *testing.T) {
	t.Setenv(keyring.EnvKeyID, "PKENV5678")
	t.Setenv(keyring.EnvSecretKey, "")

	out, err := runConfigureCmd(t, configureOptions{
		configPath:     filepath.Join(t.TempDir(), "config.yaml"),
		store:          keyring.NewEnvStore(keyring.NewMockCredentials("PKTEST1234", "secret")),
		passwordReader: newMockPasswordReader("", true),
		prompt:         newMockPrompt(1),
	})

	require.NoError(t, err)
	assert.Contains(t, out, "API key id: *****5678")
	assert.Contains(t, out, "Overridden by: APCA_API_KEY_ID")
}

func TestConfigureCmd_ReconfigureSwitchToLive(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	t.Run("declined", func(t *testing.T) {
		out, err := runConfigureCmd(t, configureOptions{
			configPath:     configPath,
			store:          keyring.NewMockCredentials("PKTEST1234", "secret"),
			passwordReader: newMockPasswordReader("", true),
			prompt:         newMockPrompt(2).WithLines("no"),
		})
		require.NoError(t, err)
		assert.Contains(t, out, "Staying on paper trading.")
		_, statErr := os.Stat(configPath)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("confirmed", func(t *testing.T) {
		out, err := runConfigureCmd(t, configureOptions{
			configPath:     configPath,
			store:          keyring.NewMockCredentials("PKTEST1234", "secret"),
			passwordReader: newMockPasswordReader("", true),
			prompt:         newMockPrompt(2).WithLines("LIVE"),
		})
		require.NoError(t, err)
		assert.Contains(t, out, "Switched to live trading")

		cfg, err := config.Load(configPath)
		require.NoError(t, err)
		assert.Equal(t, alpaca.LiveURL, cfg.APIBaseURL)
	})

	t.Run("back to paper", func(t *testing.T) {
		out, err := runConfigureCmd(t, configureOptions{
			configPath:     configPath,
			store:          keyring.NewMockCredentials("PKTEST1234", "secret"),
			passwordReader: newMockPasswordReader("", true),
			prompt:         newMockPrompt(2),
		})
		require.NoError(t, err)
		assert.Contains(t, out, "Switched to paper trading")
	})
}

func TestConfigureCmd_ReconfigureClear(t *testing.T) {
	store := keyring.NewMockCredentials("PKTEST1234", "secret")

	out, err := runConfigureCmd(t, configureOptions{
		configPath:     filepath.Join(t.TempDir(), "config.yaml"),
		store:          store,
		passwordReader: newMockPasswordReader("", true),
		prompt:         newMockPrompt(3),
	})

	require.NoError(t, err)
	assert.Contains(t, out, "API keys cleared successfully.")
	assert.Equal(t, 0, store.Len())
}

func TestConfigureCmd_ReconfigureSelectionError(t *testing.T) {
	_, err := runConfigureCmd(t, configureOptions{
		configPath:     filepath.Join(t.TempDir(), "config.yaml"),
		store:          keyring.NewMockCredentials("PKTEST1234", "secret"),
		passwordReader: newMockPasswordReader("", true),
		prompt:         newMockPrompt(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read selection")
}

func TestConfigureCmd_LiveAndPaperExclusive(t *testing.T) {
	_, err := runConfigureCmd(t, configureOptions{
		store:          keyring.NewMockStore(),
		passwordReader: newMockPasswordReader("", true),
		prompt:         newMockPrompt(),
	}, "--live", "--paper")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "none of the others")
}

func TestTerminalPrompter(t *testing.T) {
	t.Run("select retries until valid", func(t *testing.T) {
		var out bytes.Buffer
		p := newTerminalPrompter(strings.NewReader("abc\n9\n2\n"), &out)

		idx, err := p.SelectOption(reconfigureMenuOptions)
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
		assert.Equal(t, 2, strings.Count(out.String(), "Please enter a number between 1 and 4"))
	})

	t.Run("select without input", func(t *testing.T) {
		p := newTerminalPrompter(strings.NewReader(""), &bytes.Buffer{})
		_, err := p.SelectOption(reconfigureMenuOptions)
		assert.EqualError(t, err, "no input")
	})

	t.Run("lines share one reader", func(t *testing.T) {
		var out bytes.Buffer
		p := newTerminalPrompter(strings.NewReader("PKTEST1234\n  live  \n"), &out)

		first, err := p.ReadLine("Key: ")
		require.NoError(t, err)
		second, err := p.ReadLine("Confirm: ")
		require.NoError(t, err)

		assert.Equal(t, "PKTEST1234", first)
		assert.Equal(t, "live", second)
		assert.Equal(t, "Key: Confirm: ", out.String())
	})

	t.Run("line without trailing newline", func(t *testing.T) {
		p := newTerminalPrompter(strings.NewReader("last"), &bytes.Buffer{})
		s, err := p.ReadLine("")
		require.NoError(t, err)
		assert.Equal(t, "last", s)
	})
}
