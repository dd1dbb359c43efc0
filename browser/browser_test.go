package browser_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/cuishuai123/presenton/browser"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetURL(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.browser")
	defer teardown()
	//
	target, err := browser.TargetURL("http://localhost:3000", "a b/c")
	require.NoError(t, err)
	u, err := url.Parse(target)
	require.NoError(t, err)
	assert.Equal(t, "/pdf-maker", u.Path)
	q := u.Query()
	assert.Equal(t, "a b/c", q.Get("id"))
	assert.Equal(t, "true", q.Get("stream"))
	assert.Equal(t, "1", q.Get("disableRedirect"))
	assert.Equal(t, "export", q.Get("userCode"))
	//
	target, err = browser.TargetURL("https://example.com/app/", "7")
	require.NoError(t, err)
	assert.True(t, browser.Allowed(target), target)
}

func TestNavigationGuard(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.browser")
	defer teardown()
	//
	for raw, ok := range map[string]bool{
		"http://localhost:3000/pdf-maker?id=1":    true,
		"about:blank":                             true,
		"http://localhost:3000/presentation?id=1": false,
		"http://localhost:3000/":                  false,
		"https://login.example.com/auth/callback": false,
		"file:///etc/passwd":                      false,
	} {
		assert.Equal(t, ok, browser.Allowed(raw), raw)
	}
}

func TestNavigateRetries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.browser")
	defer teardown()
	//
	ctx := context.Background()
	calls := 0
	err := browser.Navigate(ctx, 3, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "http://localhost:3000/dashboard", nil
		}
		return "http://localhost:3000/pdf-maker?id=1", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	//
	calls = 0
	err = browser.Navigate(ctx, 2, func(context.Context) (string, error) {
		calls++
		return "", errors.New("net::ERR_CONNECTION_REFUSED")
	})
	assert.ErrorIs(t, err, browser.ErrNavigation)
	assert.Equal(t, 2, calls)
	//
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	err = browser.Navigate(cctx, 3, func(context.Context) (string, error) {
		return "", errors.New("aborted")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
