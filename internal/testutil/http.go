// Package testutil holds helpers shared by cmdbind tests.
package testutil

import (
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// NoProxyClient returns an HTTP client that ignores HTTP_PROXY and friends,
// so tests reach a local listener directly. Redirects are not followed.
func NoProxyClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: nil,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
		Timeout: 30 * time.Second,
	}
}

// WriteConfig writes content to name in a fresh temp directory and returns
// the file's path.
func WriteConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
