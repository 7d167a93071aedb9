package demo

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"computer_use_demo/domain/entities"
	"computer_use_demo/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	bannerWidth     = 60
	noSummaryMarker = "(no summary returned)"
)

// Orchestrator runs the fixed navigate/click/screenshot/summarize script
type Orchestrator struct {
	browser     interfaces.BrowserSession
	vision      interfaces.VisionQuerier
	rootURL     string
	tasks       entities.TaskList
	instruction string
	out         io.Writer
	logger      *logrus.Logger
}

// NewOrchestrator - creates an orchestrator writing user-facing output to out
func NewOrchestrator(browser interfaces.BrowserSession, vision interfaces.VisionQuerier, rootURL string, tasks entities.TaskList, out io.Writer, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		browser:     browser,
		vision:      vision,
		rootURL:     rootURL,
		tasks:       tasks,
		instruction: entities.SummarizeInstruction,
		out:         out,
		logger:      logger,
	}
}

// Run - executes the demo. The browser is always stopped before returning,
// including after a panic in any step.
func (o *Orchestrator) Run(ctx context.Context) (results []entities.TaskResult, err error) {
	log := o.logger.WithField("run_id", uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			log.WithField("stack", string(debug.Stack())).Errorf("Error during demo: %v", r)
			err = fmt.Errorf("demo aborted: %v", r)
		}

		fmt.Fprintln(o.out, "\nClosing browser...")
		if stopErr := o.browser.Stop(); stopErr != nil {
			log.WithError(stopErr).Warn("Failed to close browser cleanly")
		}
	}()

	fmt.Fprintln(o.out, "Starting browser...")
	if err := o.browser.Start(ctx); err != nil {
		log.WithError(err).Error("Failed to start browser")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	fmt.Fprintf(o.out, "\n=== Navigating to %s ===\n", o.rootURL)
	if err := o.browser.Navigate(ctx, o.rootURL); err != nil {
		log.WithError(err).Error("Failed to open demo page")
		return nil, err
	}

	results = make([]entities.TaskResult, 0, len(o.tasks))
	for i, target := range o.tasks {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("demo canceled: %w", err)
		}

		o.printBanner(fmt.Sprintf("TASK %d: %s", i+1, target.Label))
		result := o.runTask(ctx, log.WithField("target", target.Label), target)
		results = append(results, result)
	}

	o.printBanner("Demo completed successfully!")
	return results, nil
}

// runTask - click, screenshot, summarize and print one target
func (o *Orchestrator) runTask(ctx context.Context, log *logrus.Entry, target entities.Target) entities.TaskResult {
	result := entities.TaskResult{Target: target, Status: entities.TaskStatusPending}

	fmt.Fprintf(o.out, "\n=== Clicking on '%s' in navigation ===\n", target.Label)
	if !o.browser.ClickByVisibleText(ctx, target.Label) {
		fmt.Fprintf(o.out, "Failed to click on '%s'\n", target.Label)
		result.Status = entities.TaskStatusSkipped
		return result
	}

	screenshot, err := o.browser.Screenshot(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to capture screenshot")
		fmt.Fprintf(o.out, "Failed to capture '%s'\n", target.Label)
		result.Status = entities.TaskStatusFailed
		result.Error = err.Error()
		return result
	}

	summary, err := o.vision.Query(ctx, o.instruction, screenshot)
	if err != nil {
		result.Status = entities.TaskStatusFailed
		result.Error = err.Error()
	} else {
		result.Status = entities.TaskStatusCompleted
	}
	result.Summary = summary

	fmt.Fprintf(o.out, "\n--- Summary of '%s' page ---\n", target.Label)
	if result.HasSummary() {
		fmt.Fprintln(o.out, summary)
	} else {
		fmt.Fprintln(o.out, noSummaryMarker)
	}
	fmt.Fprintln(o.out, strings.Repeat("-", bannerWidth))

	return result
}

func (o *Orchestrator) printBanner(title string) {
	line := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(o.out, "\n%s\n%s\n%s\n", line, title, line)
}
