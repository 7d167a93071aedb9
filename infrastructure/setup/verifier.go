package setup

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// CheckFunc writes its own ✓/✗/⚠ lines to out and reports whether it passed
type CheckFunc func(ctx context.Context, out io.Writer) (bool, error)

// Check is one named verification step. Optional checks only warn.
type Check struct {
	Name     string
	Optional bool
	Run      CheckFunc
}

// CheckResult is the outcome of a single check
type CheckResult struct {
	Name     string
	Optional bool
	Passed   bool
}

// Status renders the summary label of the result
func (r CheckResult) Status() string {
	switch {
	case r.Passed:
		return "PASS"
	case r.Optional:
		return "WARN"
	default:
		return "FAIL"
	}
}

func (r CheckResult) symbol() string {
	switch {
	case r.Passed:
		return "✓"
	case r.Optional:
		return "⚠"
	default:
		return "✗"
	}
}

// RequiredEnv lists the variables reported by the environment check
var RequiredEnv = []string{
	"AZURE_OPENAI_ENDPOINT",
	"AZURE_OPENAI_API_KEY",
	"AZURE_OPENAI_DEPLOYMENT_NAME",
}

// Verifier runs setup checks and turns them into a process exit code
type Verifier struct {
	checks []Check
	out    io.Writer
	logger *logrus.Logger
}

// NewVerifier - creates a verifier with an explicit check list
func NewVerifier(checks []Check, out io.Writer, logger *logrus.Logger) *Verifier {
	return &Verifier{checks: checks, out: out, logger: logger}
}

// DefaultChecks returns the driver, browser and environment checks
func DefaultChecks() []Check {
	return []Check{
		{Name: "Playwright Driver", Run: CheckPlaywrightDriver},
		{Name: "Chromium Browser", Run: CheckChromium},
		{Name: "Environment Variables", Optional: true, Run: EnvironmentCheck(os.LookupEnv)},
	}
}

// Run executes every check and prints the summary.
// It returns 0 when all required checks pass and 1 otherwise.
func (v *Verifier) Run(ctx context.Context) (int, []CheckResult) {
	line := strings.Repeat("=", 60)
	fmt.Fprintf(v.out, "%s\nComputer Use Demo - Setup Verification\n%s\n", line, line)

	results := make([]CheckResult, 0, len(v.checks))
	for _, check := range v.checks {
		fmt.Fprintf(v.out, "\nChecking %s...\n", check.Name)

		passed, err := check.Run(ctx, v.out)
		if err != nil {
			v.logger.WithError(err).WithField("check", check.Name).Error("Check failed with error")
			fmt.Fprintf(v.out, "Error in %s: %v\n", check.Name, err)
			passed = false
		}
		results = append(results, CheckResult{Name: check.Name, Optional: check.Optional, Passed: passed})
	}

	fmt.Fprintf(v.out, "\n%s\nVerification Summary\n%s\n", line, line)

	requiredPassed, optionalPassed := true, true
	for _, r := range results {
		fmt.Fprintf(v.out, "%s %s: %s\n", r.symbol(), r.Name, r.Status())
		if r.Passed {
			continue
		}
		if r.Optional {
			optionalPassed = false
		} else {
			requiredPassed = false
		}
	}
	fmt.Fprintln(v.out, line)

	if !requiredPassed {
		fmt.Fprintln(v.out, "\n✗ Some critical checks failed. Install the browser with:")
		fmt.Fprintln(v.out, "\n  computer-use-demo verify --install")
		return 1, results
	}

	fmt.Fprintln(v.out, "\n✓ All critical checks passed!")
	if optionalPassed {
		fmt.Fprintln(v.out, "✓ Environment variables are set - you're ready to run the demo!")
	} else {
		fmt.Fprintln(v.out, "⚠ Remember to set environment variables before running the demo.")
	}
	fmt.Fprintln(v.out, "\nRun the demo with: computer-use-demo")
	return 0, results
}

// CheckPlaywrightDriver - verifies the Playwright driver can be started
func CheckPlaywrightDriver(ctx context.Context, out io.Writer) (bool, error) {
	pw, err := playwright.Run(&playwright.RunOptions{SkipInstallBrowsers: true})
	if err != nil {
		fmt.Fprintf(out, "✗ Playwright driver (not installed)\n")
		return false, nil
	}
	if err := pw.Stop(); err != nil {
		return false, fmt.Errorf("failed to stop playwright: %w", err)
	}
	fmt.Fprintf(out, "✓ Playwright driver\n")
	return true, nil
}

// CheckChromium - verifies a headless Chromium can be launched and closed
func CheckChromium(ctx context.Context, out io.Writer) (bool, error) {
	pw, err := playwright.Run(&playwright.RunOptions{SkipInstallBrowsers: true})
	if err != nil {
		fmt.Fprintf(out, "✗ Cannot check (playwright driver not installed)\n")
		return false, nil
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		fmt.Fprintf(out, "✗ Chromium browser (not installed)\n")
		fmt.Fprintf(out, "  Run: computer-use-demo verify --install\n")
		return false, nil
	}
	if err := browser.Close(); err != nil {
		return false, fmt.Errorf("failed to close browser: %w", err)
	}

	fmt.Fprintf(out, "✓ Chromium browser\n")
	return true, nil
}

// EnvironmentCheck - reports which of RequiredEnv are set, using lookup to read them
func EnvironmentCheck(lookup func(string) (string, bool)) CheckFunc {
	return func(ctx context.Context, out io.Writer) (bool, error) {
		allSet := true
		for _, name := range RequiredEnv {
			if value, ok := lookup(name); ok && value != "" {
				fmt.Fprintf(out, "✓ %s\n", name)
			} else {
				fmt.Fprintf(out, "⚠ %s (not set)\n", name)
				allSet = false
			}
		}

		if !allSet {
			fmt.Fprintln(out, "\n  Note: environment variables can be set via .env file or shell exports")
		}
		return allSet, nil
	}
}

// InstallChromium - downloads the Playwright driver and the Chromium build
func InstallChromium(out io.Writer) error {
	fmt.Fprintln(out, "Installing Playwright driver and Chromium...")
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}
	return nil
}
