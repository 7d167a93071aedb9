package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"computer_use_demo/domain/entities"
	"computer_use_demo/infrastructure/config"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Session owns one Playwright driver, browser, context and page
type Session struct {
	cfg    *config.Config
	logger *logrus.Logger

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// NewSession - creates a session that is started lazily with Start
func NewSession(cfg *config.Config, logger *logrus.Logger) *Session {
	return &Session{
		cfg:    cfg,
		logger: logger,
	}
}

// Start - launches the browser with a fixed viewport and opens one page.
// Whatever was acquired before a failure is kept so Stop can release it.
func (s *Session) Start(ctx context.Context) error {
	if s.page != nil {
		return nil
	}

	pw, err := playwright.Run(&playwright.RunOptions{SkipInstallBrowsers: true})
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}
	s.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.cfg.Headless),
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	s.browser = browser

	browserContext, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  s.cfg.ViewportWidth,
			Height: s.cfg.ViewportHeight,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create context: %w", err)
	}
	s.context = browserContext

	page, err := browserContext.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	s.page = page

	s.logger.WithFields(logrus.Fields{
		"headless": s.cfg.Headless,
		"viewport": fmt.Sprintf("%dx%d", s.cfg.ViewportWidth, s.cfg.ViewportHeight),
	}).Info("Browser started")

	return nil
}

// Navigate - loads url, waits for network idle, then waits the settle delay
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.page == nil {
		return fmt.Errorf("browser is not started")
	}

	s.logger.Infof("Navigating to: %s", url)

	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   milliseconds(s.cfg.NavigationTimeout),
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	return s.settle(ctx)
}

// ClickByVisibleText - clicks the first visible element whose text matches label.
// Returns false instead of an error so the caller can skip dependent work.
func (s *Session) ClickByVisibleText(ctx context.Context, label string) bool {
	log := s.logger.WithField("label", label)

	if s.page == nil {
		log.Error("Error clicking navigation item: browser is not started")
		return false
	}

	log.Info("Clicking navigation item")

	locator := s.page.Locator(textSelector(label)).First()
	if err := locator.Click(playwright.LocatorClickOptions{
		Timeout: milliseconds(s.cfg.ClickTimeout),
	}); err != nil {
		log.WithError(err).Error("Error clicking navigation item")
		return false
	}

	if err := s.settle(ctx); err != nil {
		log.WithError(err).Warn("Interrupted while waiting for content to load")
		return false
	}
	return true
}

// Screenshot - captures the current page and returns it base64 encoded
func (s *Session) Screenshot(ctx context.Context) (string, error) {
	shot, err := s.Capture(ctx)
	if err != nil {
		return "", err
	}
	return shot.Base64(), nil
}

// Capture - captures the current page as a PNG screenshot
func (s *Session) Capture(ctx context.Context) (entities.Screenshot, error) {
	if s.page == nil {
		return entities.Screenshot{}, fmt.Errorf("browser is not started")
	}

	data, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Type:     playwright.ScreenshotTypePng,
		FullPage: playwright.Bool(s.cfg.FullPage),
	})
	if err != nil {
		return entities.Screenshot{}, fmt.Errorf("failed to take screenshot: %w", err)
	}

	s.logger.WithField("bytes", len(data)).Debug("Screenshot captured")

	return entities.Screenshot{PNG: data, CapturedAt: time.Now()}, nil
}

// Stop - closes page, context, browser and driver, in that order.
// Already closed targets are ignored and released fields are cleared,
// so calling Stop again (or after a failed Start) is a no-op.
func (s *Session) Stop() error {
	var closeErr error

	if s.page != nil {
		if err := s.page.Close(); err != nil && !isClosedErr(err) {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to close page: %w", err))
		}
		s.page = nil
	}

	if s.context != nil {
		if err := s.context.Close(); err != nil && !isClosedErr(err) {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to close context: %w", err))
		}
		s.context = nil
	}

	if s.browser != nil {
		if err := s.browser.Close(); err != nil && !isClosedErr(err) {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to close browser: %w", err))
		}
		s.browser = nil
	}

	if s.pw != nil {
		if err := s.pw.Stop(); err != nil && !isClosedErr(err) {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
		}
		s.pw = nil
	}

	return closeErr
}

// settle waits the configured delay for asynchronous rendering to finish
func (s *Session) settle(ctx context.Context) error {
	if s.cfg.SettleDelay <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.cfg.SettleDelay):
		return nil
	}
}

// textSelector matches elements by visible text, skipping hidden duplicates
func textSelector(label string) string {
	return "text=" + label + " >> visible=true"
}

// isClosedErr - reports errors caused by a target that is already gone
func isClosedErr(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

func milliseconds(d time.Duration) *float64 {
	if d <= 0 {
		return nil
	}
	return playwright.Float(float64(d.Milliseconds()))
}
