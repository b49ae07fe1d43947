package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/jonandersen/apca/internal/api"
	"github.com/jonandersen/apca/internal/auth"
	"github.com/jonandersen/apca/internal/config"
	"github.com/jonandersen/apca/internal/keyring"
	"github.com/jonandersen/apca/pkg/alpaca"
)

// passwordReader abstracts terminal password input for testing.
type passwordReader interface {
	ReadPassword() (string, error)
	IsTerminal() bool
}

// terminalReader reads passwords from the terminal using golang.org/x/term.
type terminalReader struct {
	fd int
}

func newTerminalReader(fd int) *terminalReader {
	return &terminalReader{fd: fd}
}

func (r *terminalReader) ReadPassword() (string, error) {
	password, err := term.ReadPassword(r.fd)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func (r *terminalReader) IsTerminal() bool {
	return term.IsTerminal(r.fd)
}

// prompter abstracts interactive menu selection for testing.
type prompter interface {
	SelectOption(options []string) (int, error)
	ReadLine(prompt string) (string, error)
}

// terminalPrompter implements prompter on a line reader. One buffered reader
// is shared by every prompt so input typed ahead is not lost.
type terminalPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

func newTerminalPrompter(r io.Reader, w io.Writer) *terminalPrompter {
	return &terminalPrompter{reader: bufio.NewReader(r), writer: w}
}

func (p *terminalPrompter) line() (string, error) {
	s, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

func (p *terminalPrompter) SelectOption(options []string) (int, error) {
	for {
		input, err := p.line()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, fmt.Errorf("no input")
			}
			return 0, err
		}
		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(options) {
			_, _ = fmt.Fprintf(p.writer, "Please enter a number between 1 and %d: ", len(options))
			continue
		}
		return idx - 1, nil
	}
}

func (p *terminalPrompter) ReadLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.writer, prompt)
	s, err := p.line()
	if errors.Is(err, io.EOF) {
		return "", nil
	}
	return s, err
}

// configureOptions holds dependencies for the configure command.
type configureOptions struct {
	configPath     string
	baseURL        string // overrides the configured endpoint when set
	store          keyring.Store
	passwordReader passwordReader
	prompt         prompter
	logger         *zap.Logger
}

// newConfigureCmd creates the configure command with the given options.
func newConfigureCmd(opts configureOptions) *cobra.Command {
	var live, paper bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Configure API credentials",
		Long: `Configure the CLI with your Alpaca API key pair.

You will be prompted for your key id and, without echo, your secret key.
The pair is verified against the account endpoint before it is stored in
the system keychain. New installs trade on the paper environment.

Examples:
  apca configure
  apca configure --live`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := ""
			switch {
			case live:
				env = alpaca.LiveURL
			case paper:
				env = alpaca.PaperURL
			}
			return runConfigure(cmd, opts, env)
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "Use the live trading environment")
	cmd.Flags().BoolVar(&paper, "paper", false, "Use the paper trading environment")
	cmd.MarkFlagsMutuallyExclusive("live", "paper")
	cmd.SilenceUsage = true

	return cmd
}

// reconfigureMenuOptions defines the menu options when already configured.
var reconfigureMenuOptions = []string{
	"Configure new API keys",
	"View current configuration",
	"Switch between paper and live trading",
	"Clear API keys",
}

func runConfigure(cmd *cobra.Command, opts configureOptions, env string) error {
	if !opts.passwordReader.IsTerminal() {
		return fmt.Errorf("configure requires an interactive terminal\nRun this command directly in your terminal (not piped or in a script)")
	}

	if _, err := auth.LoadCredentials(opts.store); err == nil && env == "" {
		return runReconfigureMenu(cmd, opts)
	}
	return runInitialSetup(cmd, opts, env)
}

func runReconfigureMenu(cmd *cobra.Command, opts configureOptions) error {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "CLI is already configured. What would you like to do?")
	_, _ = fmt.Fprintln(out)
	for i, opt := range reconfigureMenuOptions {
		_, _ = fmt.Fprintf(out, "  %d. %s\n", i+1, opt)
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprint(out, "Select option: ")

	choice, err := opts.prompt.SelectOption(reconfigureMenuOptions)
	if err != nil {
		return fmt.Errorf("failed to read selection: %w", err)
	}

	switch choice {
	case 0:
		return runInitialSetup(cmd, opts, "")
	case 1:
		return runViewConfiguration(cmd, opts)
	case 2:
		return runSwitchEnvironment(cmd, opts)
	case 3:
		return runClearCredentials(cmd, opts)
	default:
		return fmt.Errorf("invalid selection")
	}
}

// loadOrDefault reads the config file, falling back to the defaults.
func loadOrDefault(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// runInitialSetup prompts for a key pair, verifies it and stores it. env,
// when set, replaces the configured endpoint.
func runInitialSetup(cmd *cobra.Command, opts configureOptions, env string) error {
	keyID, err := opts.prompt.ReadLine("Enter your API key id: ")
	if err != nil {
		return fmt.Errorf("failed to read key id: %w", err)
	}
	if keyID == "" {
		return fmt.Errorf("key id cannot be empty")
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Enter your secret key: ")
	secretKey, err := opts.passwordReader.ReadPassword()
	if err != nil {
		return fmt.Errorf("failed to read secret key: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		return fmt.Errorf("secret key cannot be empty")
	}

	cfg := loadOrDefault(opts.configPath)
	if env != "" {
		cfg.APIBaseURL = env
	}
	creds := auth.Credentials{KeyID: keyID, SecretKey: secretKey}

	account, err := verifyCredentials(cfg, opts, creds)
	if err != nil {
		return fmt.Errorf("failed to validate API keys: %w", err)
	}

	if err := auth.SaveCredentials(opts.store, creds); err != nil {
		return err
	}
	if err := config.Save(opts.configPath, cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Verified account %s (%s, %s)\n", account.AccountNumber, account.Status, environmentName(cfg))
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Configuration saved successfully!")
	if names := keyring.Overrides(opts.store); len(names) > 0 {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s is set and takes precedence over the stored keys\n", strings.Join(names, ", "))
	}
	return nil
}

// verifyCredentials fetches the account with creds.
func verifyCredentials(cfg *config.Config, opts configureOptions, creds auth.Credentials) (*alpaca.Account, error) {
	verifyCfg := *cfg
	if opts.baseURL != "" {
		verifyCfg.APIBaseURL = opts.baseURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	return api.New(&verifyCfg, creds, opts.logger, recorder).GetAccount(ctx)
}

func environmentName(cfg *config.Config) string {
	if cfg.IsPaper() {
		return "paper"
	}
	return "live"
}

func runViewConfiguration(cmd *cobra.Command, opts configureOptions) error {
	cfg := loadOrDefault(opts.configPath)
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "Current Configuration:")
	_, _ = fmt.Fprintln(out, "----------------------")

	if creds, err := auth.LoadCredentials(opts.store); err == nil {
		_, _ = fmt.Fprintf(out, "API key id: %s\n", creds.Redacted())
		_, _ = fmt.Fprintln(out, "Secret key: Configured")
	} else {
		_, _ = fmt.Fprintln(out, "API keys: Not configured")
	}
	if names := keyring.Overrides(opts.store); len(names) > 0 {
		_, _ = fmt.Fprintf(out, "Overridden by: %s\n", strings.Join(names, ", "))
	}

	_, _ = fmt.Fprintf(out, "Environment: %s\n", environmentName(cfg))
	_, _ = fmt.Fprintf(out, "API base URL: %s\n", cfg.APIBaseURL)
	_, _ = fmt.Fprintf(out, "Timeout: %s\n", cfg.Timeout())
	_, _ = fmt.Fprintf(out, "Retries: %d\n", cfg.RetryMax)
	_, _ = fmt.Fprintf(out, "Log level: %s\n", cfg.LogLevel)
	source := cfg.CredentialsSource
	if source == "" {
		source = config.SourceKeyring
	}
	_, _ = fmt.Fprintf(out, "Credentials source: %s\n", source)

	return nil
}

// runSwitchEnvironment toggles between paper and live. Switching to live
// asks for an explicit "live" confirmation.
func runSwitchEnvironment(cmd *cobra.Command, opts configureOptions) error {
	cfg := loadOrDefault(opts.configPath)

	if cfg.IsPaper() {
		answer, err := opts.prompt.ReadLine("Type 'live' to trade with real money: ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !strings.EqualFold(answer, "live") {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Staying on paper trading.")
			return nil
		}
		cfg.APIBaseURL = alpaca.LiveURL
	} else {
		cfg.APIBaseURL = alpaca.PaperURL
	}

	if err := config.Save(opts.configPath, cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s trading (%s)\n", environmentName(cfg), cfg.APIBaseURL)
	return nil
}

func runClearCredentials(cmd *cobra.Command, opts configureOptions) error {
	if err := auth.ClearCredentials(opts.store); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API keys cleared successfully.")
	return nil
}

func init() {
	configureCmd := newConfigureCmd(configureOptions{
		configPath:     config.ConfigPath(),
		store:          keyring.NewEnvStore(keyring.NewSystemStore()),
		passwordReader: newTerminalReader(int(os.Stdin.Fd())),
		prompt:         newTerminalPrompter(os.Stdin, os.Stdout),
	})
	rootCmd.AddCommand(configureCmd)
}
