package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/turtacn/drugflat/internal/config"
	"github.com/turtacn/drugflat/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugflat/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	EnvFile    string
	LogLevel   string
	LogFormat  string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	// Viper holds file and environment settings; subcommands bind their own
	// flags to it before calling config.Finalize.
	Viper  *viper.Viper
	Logger logging.Logger
}

// NewRootCommand creates the root command with all global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "drugflat",
		Short: "Flatten a DrugBank XML export into analysis-ready CSV tables",
		Long: "drugflat streams a DrugBank XML export and writes one wide drugs table plus\n" +
			"category, pathway, property, interaction and name tables. Free-text\n" +
			"measurements are parsed to numbers, toxicity narratives are mined into\n" +
			"structured features and interaction descriptions are templated.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cliCtx, err := GetCLIContext(cmd); err == nil {
				_ = cliCtx.Logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (YAML)")
	pf.StringVar(&opts.EnvFile, "env-file", config.DefaultDotEnvFile, "dotenv file loaded before the environment")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.LogFormat, "log-format", "", "log format (console, json)")

	cmd.AddCommand(
		NewConvertCmd(),
		NewSchemaCmd(),
		NewToxicityCmd(),
		NewPropertyCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// persistentPreRun loads .env and the config file, builds the logger and
// stores the CLIContext on the command.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	if err := config.LoadDotEnv(opts.EnvFile); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigLoad, "load env file")
	}
	v, err := config.Read(opts.ConfigPath)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigLoad, "read config")
	}
	if opts.LogLevel != "" {
		v.Set("log.level", opts.LogLevel)
	}
	if opts.LogFormat != "" {
		v.Set("log.format", opts.LogFormat)
	}

	logger, err := initLogger(v)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "logger initialization failed")
	}
	logging.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, &CLIContext{Viper: v, Logger: logger}))
	return nil
}

// initLogger creates a logger configured for CLI usage (output to stderr).
func initLogger(v *viper.Viper) (logging.Logger, error) {
	cfg := logging.LogConfig{
		Level:  strings.ToLower(v.GetString("log.level")),
		Format: strings.ToLower(v.GetString("log.format")),
	}
	if out := v.GetString("log.output"); out != "" {
		cfg.OutputPaths = []string{out}
	}
	return logging.NewLogger(cfg)
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeValidation, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeValidation, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute runs the root command and returns the process exit status.
func Execute(ctx context.Context, args []string) int {
	return executeRoot(ctx, NewRootCommand(), args)
}

func executeRoot(ctx context.Context, rootCmd *cobra.Command, args []string) int {
	rootCmd.SetArgs(args)
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return errors.ExitOK
	}
	// Errors raised by cobra itself (unknown flag, wrong argument count)
	// carry no code.
	if errors.GetCode(err) == errors.CodeUnknown {
		err = errors.Wrap(err, errors.ErrCodeBadRequest, "invalid invocation")
	}
	if cmd == nil {
		cmd = rootCmd
	}
	PrintError(cmd, err)
	return errors.ExitStatus(err)
}

// printJSON outputs data as indented JSON to stdout.
func printJSON(cmd *cobra.Command, data interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}

// PrintError writes a formatted error message to stderr. Errors blamed on
// the input document or the invocation get a usage hint.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "Error: %s\n", err.Error())
	if code := errors.GetCode(err); errors.IsInputError(code) {
		fmt.Fprintf(out, "%s; see '%s --help'\n", errors.DefaultMessageForCode(code), cmd.CommandPath())
	}
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if len(row[i]) > colWidths[i] {
				colWidths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			sb.WriteString(padRight(val, colWidths[i]))
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	sep := make([]string, len(colWidths))
	for i, w := range colWidths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

// padRight pads s with spaces to the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
