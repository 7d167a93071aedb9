package terminal

import (
	"errors"
	"fmt"
	"os"

	"computer_use_demo/infrastructure/config"
	"computer_use_demo/infrastructure/setup"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// ErrVerificationFailed is returned by verify when a required check fails
var ErrVerificationFailed = errors.New("setup verification failed")

// NewRootCommand builds the CLI. The root command runs the demo.
func NewRootCommand(f Factories) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "computer-use-demo",
		Short:         "Drive a browser through documentation pages and summarize them with Azure OpenAI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env file is optional
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			printIntro(out)

			cfg, err := config.Load(cfgFile)
			if errors.Is(err, config.ErrMissingEndpoint) {
				printMissingEndpoint(out)
				return err
			}
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger := newLogger(cfg.LogLevel, cmd.ErrOrStderr())

			ti, err := NewTerminalInterface(cfg, logger, out, f)
			if err != nil {
				return err
			}
			defer ti.Close()

			return ti.Run(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "optional YAML file with demo settings")

	rootCmd.AddCommand(newVerifyCommand(f))
	return rootCmd
}

func newVerifyCommand(f Factories) *cobra.Command {
	var install bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that the Playwright driver, Chromium and environment are ready.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			logger := newLogger("info", cmd.ErrOrStderr())

			if install {
				if err := setup.InstallChromium(out); err != nil {
					return err
				}
			}

			code, _ := setup.NewVerifier(f.Checks(), out, logger).Run(cmd.Context())
			if code != 0 {
				return ErrVerificationFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&install, "install", false, "install the Playwright driver and Chromium before checking")
	return cmd
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	ctx, stop := signalContext()
	defer stop()

	if err := NewRootCommand(DefaultFactories()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
