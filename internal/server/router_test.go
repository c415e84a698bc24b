package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xdg/cmdbind/internal/clog"
	"github.com/xdg/cmdbind/internal/config"
	"github.com/xdg/cmdbind/internal/executor"
	"github.com/xdg/cmdbind/internal/invoke"
	"github.com/xdg/cmdbind/internal/result"
)

func TestMain(m *testing.M) {
	clog.Discard()
	os.Exit(m.Run())
}

// fakeInvoker records requests and answers with a fixed result.
type fakeInvoker struct {
	mu       sync.Mutex
	requests []invoke.Request
	result   result.Result
}

func (f *fakeInvoker) Invoke(_ context.Context, req invoke.Request) result.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	res := f.result
	res.SectionName = req.Binding.Name
	return res
}

func (f *fakeInvoker) last(t *testing.T) invoke.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "invoker was not called")
	return f.requests[len(f.requests)-1]
}

func (f *fakeInvoker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

var testBindings = []config.Binding{
	{Name: "listfiles", Command: "ls -l", Argv: []string{"ls", "-l"}, WorkingDirectory: "/tmp", AcceptArguments: true},
	{Name: "uptime", Command: "uptime", Argv: []string{"uptime"}, WorkingDirectory: "/tmp"},
	{Name: "disk.usage", Command: "df -h", Argv: []string{"df", "-h"}, WorkingDirectory: "/tmp", AcceptArguments: true},
}

func newTestRouter() (http.Handler, *fakeInvoker) {
	inv := &fakeInvoker{result: result.Result{Status: result.StatusOK, Output: "done"}}
	return NewRouter(testBindings, inv), inv
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Arguments(t *testing.T) {
	tests := []struct {
		target  string
		binding string
		rawArgs string
	}{
		{"/listfiles/", "listfiles", ""},
		{"/listfiles/-a", "listfiles", "-a"},
		{"/listfiles/-a/-h", "listfiles", "-a/-h"},
		{"/listfiles/a//b", "listfiles", "a//b"},
		{"/listfiles/a/", "listfiles", "a/"},
		{"/listfiles/..", "listfiles", ".."},
		{"/listfiles/hello%20world", "listfiles", "hello world"},
		{"/uptime/", "uptime", ""},
		{"/disk.usage/-x", "disk.usage", "-x"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			h, inv := newTestRouter()
			w := get(t, h, tt.target)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			req := inv.last(t)
			assert.Equal(t, tt.binding, req.Binding.Name)
			assert.Equal(t, tt.rawArgs, req.RawArgs)
		})
	}
}

func TestRouter_NoArgumentRouteWhenNotAccepted(t *testing.T) {
	h, inv := newTestRouter()

	for _, target := range []string{"/uptime/anything", "/uptime/a/b", "/uptime//"} {
		w := get(t, h, target)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
	}
	assert.Zero(t, inv.count())
}

func TestRouter_NotFound(t *testing.T) {
	h, inv := newTestRouter()

	for _, target := range []string{"/", "/nope/", "/listfilesx/", "/LISTFILES/", "/disk-usage/"} {
		w := get(t, h, target)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
	}
	assert.Zero(t, inv.count())
}

func TestRouter_RedirectsToTrailingSlash(t *testing.T) {
	h, inv := newTestRouter()

	w := get(t, h, "/uptime")
	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
	assert.Equal(t, "/uptime/", w.Header().Get("Location"))
	assert.Zero(t, inv.count())
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	h, inv := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/uptime/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Zero(t, inv.count())
}

func TestRouter_RendersResult(t *testing.T) {
	inv := &fakeInvoker{result: result.Result{
		Command:    "ls -l -a",
		Status:     result.StatusOK,
		Username:   "alice",
		HostName:   "box",
		WorkingDir: "/tmp/work",
		Output:     "total 0\n<b>not bold</b>\n",
		Duration:   1500 * time.Millisecond,
		OutputSize: 2048,
	}}
	h := NewRouter(testBindings, inv)

	w := get(t, h, "/listfiles/-a")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<title>listfiles: OK</title>")
	assert.Contains(t, body, "ls -l -a")
	assert.Contains(t, body, "alice@box")
	assert.Contains(t, body, "/tmp/work")
	assert.Contains(t, body, "1.5s")
	assert.Contains(t, body, "2.0 kB")
	assert.Contains(t, body, "&lt;b&gt;not bold&lt;/b&gt;", "output must be escaped")
	assert.NotContains(t, body, `class="error"`)
}

func TestRouter_FailureIsStillOK(t *testing.T) {
	inv := &fakeInvoker{result: result.Result{
		Command:      "ls -l",
		Status:       "Fail (ret = -1)",
		Kind:         executor.KindDirectoryMissing,
		ErrorMessage: `working_directory "/no/such/path" does not exist`,
	}}
	h := NewRouter(testBindings, inv)

	w := get(t, h, "/listfiles/")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Fail (ret = -1)")
	assert.Contains(t, body, `class="fail"`)
	assert.Contains(t, body, "DirectoryMissing")
	assert.Contains(t, body, "/no/such/path")
}

func TestRouter_PassesRequestContext(t *testing.T) {
	var got context.Context
	inv := invokerFunc(func(ctx context.Context, req invoke.Request) result.Result {
		got = ctx
		return result.Result{SectionName: req.Binding.Name, Status: result.StatusOK}
	})
	h := NewRouter(testBindings, inv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/uptime/", nil).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	cancel()
	assert.ErrorIs(t, got.Err(), context.Canceled)
}

type invokerFunc func(context.Context, invoke.Request) result.Result

func (f invokerFunc) Invoke(ctx context.Context, req invoke.Request) result.Result {
	return f(ctx, req)
}

func TestRouter_RealInvocation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/marker.txt", nil, 0o600))

	bindings := []config.Binding{{
		Name: "listfiles", Command: "ls -l", Argv: []string{"ls", "-l"},
		WorkingDirectory: dir, AcceptArguments: true,
	}}
	srv := httptest.NewServer(NewRouter(bindings, invoke.New()))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/listfiles/-a")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "marker.txt")
	assert.Contains(t, string(body), "<title>listfiles: OK</title>")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "12ms", formatDuration(12345*time.Microsecond))
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m3s", formatDuration(2*time.Minute+3400*time.Millisecond))
}
