package interfaces

import "context"

// BrowserSession defines the single-page browser lifecycle used by the demo
type BrowserSession interface {
	// Start launches the browser and opens one page
	Start(ctx context.Context) error

	// Navigate loads a URL and waits for the page to settle
	Navigate(ctx context.Context, url string) error

	// ClickByVisibleText clicks the first visible element matching label.
	// Failures are reported through the return value, never as an error.
	ClickByVisibleText(ctx context.Context, label string) bool

	// Screenshot captures the current page as a base64 encoded PNG
	Screenshot(ctx context.Context) (string, error)

	// Stop releases page, context, browser and driver. Safe to call more than once.
	Stop() error
}
