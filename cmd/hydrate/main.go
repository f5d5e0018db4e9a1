package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vango-dev/hydrate/internal/config"
	"github.com/vango-dev/hydrate/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// errCheckFailed is returned by check when hydration would not succeed, so
// that the process exits non-zero without printing the error again.
var errCheckFailed = stderrors.New("check failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !stderrors.Is(err, errCheckFailed) {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hydrate",
		Short: "Check server markup against client renders",
		Long: `hydrate compares server-rendered markup with the markup the client
would render and reports what hydration would do with it: repair
attributes and text in place, render one boundary again, or throw
the whole tree away.

Settings are read from hydrate.json or hydrate.yaml in --dir and
from HYDRATE_* environment variables. Flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("dir", ".", "Directory holding hydrate.json or hydrate.yaml")
	rootCmd.PersistentFlags().String("config", "", "Explicit configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			errors.DisableColors()
		}
	}

	rootCmd.AddCommand(
		checkCmd(),
		serveCmd(),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads the configuration for cmd. Flags the command defines
// override the file and the environment when they are set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	opts := []config.Option{
		config.WithFlag("log.level", flags.Lookup("log-level")),
		config.WithFlag("mode", flags.Lookup("mode")),
		config.WithFlag("contextWindow", flags.Lookup("context")),
		config.WithFlag("lookahead", flags.Lookup("lookahead")),
		config.WithFlag("textPolicy", flags.Lookup("text")),
		config.WithFlag("keepWhitespace", flags.Lookup("keep-whitespace")),
		config.WithFlag("ignoreAttrs", flags.Lookup("ignore-attr")),
		config.WithFlag("serve.addr", flags.Lookup("addr")),
	}
	if path, _ := flags.GetString("config"); path != "" {
		return config.LoadFile(path, opts...)
	}
	dir, _ := flags.GetString("dir")
	return config.Load(dir, opts...)
}

// newLogger builds the process logger from the configuration.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, err := cfg.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// printError writes err to w, using the structured format for hydrate
// errors anywhere in the chain.
func printError(w io.Writer, err error) {
	var herr *errors.HydrateError
	if stderrors.As(err, &herr) {
		fmt.Fprint(w, herr.Format())
		return
	}
	errors.Fprint(w, err)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", yellow("⚠"), fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", red("✗"), fmt.Sprintf(format, args...))
}
