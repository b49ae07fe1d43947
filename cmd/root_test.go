package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_JSONFlagExists(t *testing.T) {
	// Reset the flag for testing
	jsonOutput = false

	flag := rootCmd.PersistentFlags().Lookup("json")

	require.NotNil(t, flag, "--json flag should exist")
	assert.Equal(t, "false", flag.DefValue)
	assert.Equal(t, "Output in JSON format", flag.Usage)
}

func TestRootCmd_JSONFlagShorthand(t *testing.T) {
	flag := rootCmd.PersistentFlags().ShorthandLookup("j")

	require.NotNil(t, flag, "-j shorthand should exist")
	assert.Equal(t, "json", flag.Name)
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	for _, name := range []string{"log-level", "stats"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "--%s should exist", name)
	}
}

func TestRootCmd_GetJSONMode(t *testing.T) {
	jsonOutput = false
	assert.False(t, GetJSONMode())

	jsonOutput = true
	assert.True(t, GetJSONMode())

	jsonOutput = false
}

func TestRootCmd_Version(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	_ = rootCmd.Execute()

	assert.Contains(t, out.String(), "apca version")
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"configure", "account", "clock", "calendar", "assets", "options", "order",
		"positions", "watchlist", "history", "corporate-actions", "wallets",
	} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestAddAPICommand_ResolvesLazily(t *testing.T) {
	var got *apiOptions
	addAPICommand(func(opts *apiOptions) *cobra.Command {
		got = opts
		return &cobra.Command{Use: "probe-lazy", Hidden: true}
	})
	t.Cleanup(func() {
		for _, c := range rootCmd.Commands() {
			if c.Name() == "probe-lazy" {
				rootCmd.RemoveCommand(c)
			}
		}
	})

	require.NotNil(t, got)
	assert.Nil(t, got.client, "client is built in PersistentPreRunE, not at registration")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APCA_CONFIG", t.TempDir()+"/config.yaml")
	t.Setenv("APCA_API_BASE_URL", "https://api.alpaca.markets")
	t.Setenv("APCA_LOG_LEVEL", "debug")
	t.Chdir(t.TempDir())

	logLevel = ""
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://api.alpaca.markets", cfg.APIBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.IsPaper())
}

func TestLoadConfig_LogLevelFlagWins(t *testing.T) {
	t.Setenv("APCA_CONFIG", t.TempDir()+"/config.yaml")
	t.Setenv("APCA_LOG_LEVEL", "debug")
	t.Chdir(t.TempDir())

	logLevel = "error"
	t.Cleanup(func() { logLevel = "" })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}
