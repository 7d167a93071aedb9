package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"

	"computer_use_demo/application/demo"
	"computer_use_demo/domain/entities"
	"computer_use_demo/domain/interfaces"
	"computer_use_demo/infrastructure/ai"
	"computer_use_demo/infrastructure/browser"
	"computer_use_demo/infrastructure/config"
	"computer_use_demo/infrastructure/setup"

	"github.com/sirupsen/logrus"
)

// Factories builds the collaborators of a run. Tests replace them with fakes.
type Factories struct {
	NewBrowser func(cfg *config.Config, logger *logrus.Logger) interfaces.BrowserSession
	NewVision  func(cfg *config.Config, logger *logrus.Logger) (interfaces.VisionQuerier, error)
	Checks     func() []setup.Check
}

// DefaultFactories wires Playwright, Azure OpenAI and the real setup checks
func DefaultFactories() Factories {
	return Factories{
		NewBrowser: func(cfg *config.Config, logger *logrus.Logger) interfaces.BrowserSession {
			return browser.NewSession(cfg, logger)
		},
		NewVision: func(cfg *config.Config, logger *logrus.Logger) (interfaces.VisionQuerier, error) {
			return ai.NewVisionClient(cfg, logger, ai.DefaultCredential)
		},
		Checks: setup.DefaultChecks,
	}
}

type TerminalInterface struct {
	orchestrator *demo.Orchestrator
	browser      interfaces.BrowserSession
	logger       *logrus.Logger
	out          io.Writer
}

func NewTerminalInterface(cfg *config.Config, logger *logrus.Logger, out io.Writer, f Factories) (*TerminalInterface, error) {
	vision, err := f.NewVision(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}

	browserSession := f.NewBrowser(cfg, logger)
	tasks := entities.NewTaskList(cfg.Targets...)

	return &TerminalInterface{
		orchestrator: demo.NewOrchestrator(browserSession, vision, cfg.RootURL, tasks, out, logger),
		browser:      browserSession,
		logger:       logger,
		out:          out,
	}, nil
}

func (t *TerminalInterface) Run(ctx context.Context) error {
	results, err := t.orchestrator.Run(ctx)

	for _, r := range results {
		entry := t.logger.WithFields(logrus.Fields{
			"target": r.Target.Label,
			"status": r.Status,
		})
		if r.Error != "" {
			entry = entry.WithField("error", r.Error)
		}
		entry.Debug("Task finished")
	}

	return err
}

func (t *TerminalInterface) Close() error {
	return t.browser.Stop()
}

func newLogger(level string, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		logger.Warnf("Unknown log level %q, using info", level)
	}
	logger.SetLevel(lvl)
	return logger
}

func printIntro(out io.Writer) {
	line := strings.Repeat("=", 60)
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, "GPT Computer Use Demo")
	fmt.Fprintln(out, line)
	fmt.Fprintln(out, "\nThis demo will:")
	fmt.Fprintln(out, "1. Navigate to the Microsoft Fabric API Structure documentation")
	fmt.Fprintln(out, "2. Click on each navigation target and summarize the content")
	fmt.Fprintln(out, "\nRequired environment variables:")
	fmt.Fprintln(out, "  - AZURE_OPENAI_ENDPOINT: Your Azure OpenAI endpoint")
	fmt.Fprintln(out, "  - AZURE_OPENAI_API_KEY: Your API key (or use Azure credential)")
	fmt.Fprintf(out, "  - AZURE_OPENAI_DEPLOYMENT_NAME: Your deployment name (default: %s)\n", config.DefaultDeploymentName)
	fmt.Fprintln(out, line+"\n")
}

func printMissingEndpoint(out io.Writer) {
	fmt.Fprintln(out, "ERROR: AZURE_OPENAI_ENDPOINT environment variable is not set!")
	fmt.Fprintln(out, "\nPlease set the required environment variables and try again.")
	fmt.Fprintln(out, "\nExample:")
	fmt.Fprintln(out, "  export AZURE_OPENAI_ENDPOINT='https://your-resource.openai.azure.com/'")
	fmt.Fprintln(out, "  export AZURE_OPENAI_API_KEY='your-api-key'")
	fmt.Fprintf(out, "  export AZURE_OPENAI_DEPLOYMENT_NAME='%s'\n", config.DefaultDeploymentName)
}
