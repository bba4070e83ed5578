package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/qcmd/q/internal/config"
	qerrors "github.com/qcmd/q/internal/errors"
	"github.com/qcmd/q/internal/executor"
	"github.com/qcmd/q/internal/history"
	"github.com/qcmd/q/internal/llm"
	_ "github.com/qcmd/q/internal/llm/openrouter"
	"github.com/qcmd/q/internal/logging"
	"github.com/qcmd/q/internal/sysinfo"
	"github.com/qcmd/q/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "q [query...]",
	Short: "AI-powered terminal command assistant",
	Long: `q translates a natural language request into a shell command,
shows it to you with an explanation, and runs it once you confirm.

Use 'q config' to set up your OpenRouter API key first.`,
	Example: `  q list all files modified in the last week
  q convert video.mp4 to a gif
  q -y show disk usage`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,  // avoid printing usage on errors we already handle
	SilenceErrors: true,  // the error handler owns error messages
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagConfigPath {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		}

		// Bare `q` shows help without touching the config, so a fresh
		// install can explore the CLI before configuring anything.
		query := strings.Join(args, " ")
		if strings.TrimSpace(query) == "" {
			return cmd.Help()
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			failValidation(err)
		}

		return runQuery(cmd.Context(), cfg, query)
	},
}

// runQuery is the main pipeline: gather context, ask the provider for a
// suggestion, then hand it to the executor.
func runQuery(ctx context.Context, cfg *config.Config, query string) error {
	log := logging.WithComponent("cli")
	log.WithField("query", query).Debug("Handling query")

	sysCtx := sysinfo.Gather(cfg.Context)

	providerName := effectiveProviderName(cfg)
	settings, err := cfg.ProviderSettings(providerName)
	if err != nil {
		return err
	}
	provider, err := llm.GetProvider(providerName, settings, newPromptManager())
	if err != nil {
		return err
	}

	presenter := ui.NewPresenter()
	presenter.ShowThinking()

	suggestion, err := provider.GenerateCommand(ctx, query, sysCtx)
	presenter.StopThinking()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return err
	}

	exec := executor.New(executor.Options{
		AutoConfirm:     flagYes || cfg.Execution.AutoConfirm,
		ShowExplanation: cfg.Execution.ShowExplanation,
		CopyToClipboard: cfg.Execution.CopyToClipboard,
	}, presenter, recordHistory)

	return exec.HandleSuggestion(ctx, query, suggestion)
}

// failValidation reports a broken config and exits. The message points
// at the file since every validation failure is fixed by editing it.
func failValidation(err error) {
	msg := err.Error()
	if qErr, ok := qerrors.GetQError(err); ok {
		msg = qErr.Message
	}
	fmt.Fprintln(os.Stderr, pterm.FgLightRed.Sprintf("Configuration error: %s", msg))
	fmt.Fprintf(os.Stderr, "\nTo edit your config, run: %s\n", pterm.FgLightCyan.Sprint("q --config-path"))
	os.Exit(1)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the version number of q",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("q", versionString())
	},
}

func init() {
	// Make available commands display in the order they were added
	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	_ = history.Close()
	_ = logging.Close()

	if err != nil {
		ui.NewErrorHandler(flagDebug).Handle(err)
		os.Exit(ui.ExitCode(err))
	}
}

// Global flags
var (
	flagConfigPath bool
	flagYes        bool
	flagProvider   string
	flagDebug      bool
)

// versionString is injected by ldflags: -X 'main._version=vX.Y.Z'
var _version string

func init() {
	rootCmd.Flags().BoolVar(&flagConfigPath, "config-path", false, "show the config file path and exit")
	rootCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "skip confirmation and execute immediately (use with caution!)")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "override the default provider for this run")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug mode for verbose diagnostics")

	// Queries are free text: once the first query word appears, later
	// hyphenated tokens belong to the query, not the flag set.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if flagDebug {
			logCfg := logging.DefaultConfig()
			logCfg.Level = logging.DebugLevel
			logCfg.Output = "both"
			if err := logging.Init(logCfg); err != nil {
				pterm.Warning.Printfln("Warning: Could not initialize debug logging: %v", err)
			}
		}
	}
}

func effectiveProviderName(cfg *config.Config) string {
	if strings.TrimSpace(flagProvider) != "" {
		return flagProvider
	}
	return cfg.AI.DefaultProvider
}

func versionString() string {
	if strings.TrimSpace(_version) == "" {
		return "v0.1.0"
	}
	return _version
}
