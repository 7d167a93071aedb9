package browser

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"computer_use_demo/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docsPage = `<!DOCTYPE html>
<html>
<head><title>API structure</title></head>
<body>
  <nav>
    <ul>
      <li style="display:none"><a href="#hidden">Identity Scope</a></li>
      <li><a href="#identity" onclick="document.getElementById('content').textContent='Identity scope content'">Identity Scope</a></li>
      <li><a href="#throttling" onclick="document.getElementById('content').textContent='Throttling content'">Throttling</a></li>
    </ul>
  </nav>
  <main id="content">API structure</main>
</body>
</html>`

func testConfig() *config.Config {
	return &config.Config{
		Headless:          true,
		ViewportWidth:     1280,
		ViewportHeight:    720,
		SettleDelay:       10 * time.Millisecond,
		NavigationTimeout: 10 * time.Second,
		ClickTimeout:      time.Second,
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// startedSession launches a real browser or skips when Playwright is not installed
func startedSession(t *testing.T) *Session {
	t.Helper()
	if testing.Short() {
		t.Skip("browser tests are skipped in short mode")
	}

	session := NewSession(testConfig(), quietLogger())
	if err := session.Start(context.Background()); err != nil {
		_ = session.Stop()
		t.Skipf("playwright is not available: %v", err)
	}
	t.Cleanup(func() { _ = session.Stop() })
	return session
}

func docsServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, docsPage)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestStop_NeverStarted(t *testing.T) {
	session := NewSession(testConfig(), quietLogger())

	assert.NoError(t, session.Stop())
	assert.NoError(t, session.Stop())
}

func TestActionsBeforeStart(t *testing.T) {
	session := NewSession(testConfig(), quietLogger())
	ctx := context.Background()

	assert.Error(t, session.Navigate(ctx, "http://localhost"))
	assert.False(t, session.ClickByVisibleText(ctx, "Identity Scope"))

	_, err := session.Screenshot(ctx)
	assert.Error(t, err)
}

func TestTextSelector(t *testing.T) {
	assert.Equal(t, "text=Identity Scope >> visible=true", textSelector("Identity Scope"))
}

func TestIsClosedErr(t *testing.T) {
	assert.True(t, isClosedErr(errString("target closed")))
	assert.True(t, isClosedErr(errString("browser has been closed")))
	assert.False(t, isClosedErr(errString("timeout 1000ms exceeded")))
}

type errString string

func (e errString) Error() string { return string(e) }

func TestMilliseconds(t *testing.T) {
	assert.Nil(t, milliseconds(0))
	require.NotNil(t, milliseconds(2*time.Second))
	assert.Equal(t, 2000.0, *milliseconds(2 * time.Second))
}

func TestSession_ClickAndScreenshot(t *testing.T) {
	session := startedSession(t)
	server := docsServer(t)
	ctx := context.Background()

	require.NoError(t, session.Navigate(ctx, server.URL))

	for _, label := range []string{"Identity Scope", "Throttling"} {
		assert.True(t, session.ClickByVisibleText(ctx, label), label)

		encoded, err := session.Screenshot(ctx)
		require.NoError(t, err)

		data, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		require.Greater(t, len(data), 8)
		assert.Equal(t, "\x89PNG", string(data[:4]))
	}
}

func TestSession_ClickMissingLabel(t *testing.T) {
	session := startedSession(t)
	server := docsServer(t)
	ctx := context.Background()

	require.NoError(t, session.Navigate(ctx, server.URL))
	assert.False(t, session.ClickByVisibleText(ctx, "Pagination"))
}

func TestSession_StopTwiceAfterStart(t *testing.T) {
	session := startedSession(t)

	assert.NoError(t, session.Stop())
	assert.NoError(t, session.Stop())
}
