package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonandersen/apca/internal/api"
	"github.com/jonandersen/apca/internal/auth"
	"github.com/jonandersen/apca/internal/config"
	"github.com/jonandersen/apca/internal/logger"
	"github.com/jonandersen/apca/internal/metrics"
	"github.com/jonandersen/apca/internal/output"
	"github.com/jonandersen/apca/pkg/alpaca"
)

var Version = "dev"

// requestTimeout bounds every command's API work.
const requestTimeout = 30 * time.Second

var (
	// jsonOutput controls whether output is formatted as JSON
	jsonOutput bool
	logLevel   string
	showStats  bool
)

// recorder collects per-endpoint request metrics for --stats.
var recorder = metrics.NewRecorder()

var rootCmd = &cobra.Command{
	Use:   "apca",
	Short: "Alpaca Trading CLI",
	Long: `A CLI for trading stocks, options, and crypto via the Alpaca trading API.

Credentials are read from the system keychain (see 'apca configure'),
AWS Secrets Manager, or the APCA_API_KEY_ID and APCA_API_SECRET_KEY
environment variables.`,
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "Print API request statistics to stderr on exit")
}

// GetJSONMode returns whether JSON output mode is enabled.
func GetJSONMode() bool {
	return jsonOutput
}

func Execute() {
	err := rootCmd.Execute()
	if showStats {
		_ = recorder.WriteSummary(os.Stderr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// apiOptions holds dependencies for commands that call the trading API.
// Tests fill it directly; production commands resolve it lazily in
// PersistentPreRunE so --help works without credentials.
type apiOptions struct {
	client   *alpaca.Client
	jsonMode bool
}

func (o *apiOptions) formatter(cmd *cobra.Command) *output.Formatter {
	return output.New(cmd.OutOrStdout(), o.jsonMode)
}

// loadConfig reads the config file, .env and environment overrides.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(cfg)
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the command logger at the configured level.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	return logger.NewWriter(cmd.ErrOrStderr(), cfg.LogLevel)
}

// withAPI returns a PersistentPreRunE that fills opts from config and the
// configured credential store.
func withAPI(opts *apiOptions) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		store, err := auth.StoreFor(ctx, cfg)
		if err != nil {
			return err
		}
		client, err := api.NewFromStore(cfg, store, log, recorder)
		if err != nil {
			return err
		}

		opts.client = client
		opts.jsonMode = GetJSONMode()
		return nil
	}
}

// addAPICommand registers cmd on the root with lazily resolved API options.
func addAPICommand(newCmd func(*apiOptions) *cobra.Command) {
	opts := &apiOptions{}
	c := newCmd(opts)
	c.PersistentPreRunE = withAPI(opts)
	rootCmd.AddCommand(c)
}
