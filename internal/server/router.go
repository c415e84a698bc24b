// Package server exposes each configured binding as HTTP routes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"github.com/xdg/cmdbind/internal/clog"
	"github.com/xdg/cmdbind/internal/config"
	"github.com/xdg/cmdbind/internal/invoke"
	"github.com/xdg/cmdbind/internal/result"
)

// argsVar is the route variable holding the path suffix.
const argsVar = "args"

// Invoker runs one binding for one request.
type Invoker interface {
	Invoke(ctx context.Context, req invoke.Request) result.Result
}

// bindingHandler serves every route of one binding.
type bindingHandler struct {
	binding config.Binding
	invoker Invoker
}

func (h *bindingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := invoke.Request{Binding: h.binding, RawArgs: mux.Vars(r)[argsVar]}
	writeResult(w, h.invoker.Invoke(r.Context(), req))
}

// NewRouter builds the routes for bindings:
//
//	GET /<name>           308 redirect to /<name>/
//	GET /<name>/          run with no arguments
//	GET /<name>/<suffix>  run with arguments, only if AcceptArguments
//
// Paths are matched without cleaning, so "//" and a trailing "/" in the
// suffix reach the argument splitter unchanged. Anything else is 404, or 405
// for a non-GET request to a registered path.
func NewRouter(bindings []config.Binding, invoker Invoker) *mux.Router {
	handlers := make(map[string]*bindingHandler, len(bindings))
	for _, b := range bindings {
		handlers[b.Name] = &bindingHandler{binding: b, invoker: invoker}
	}

	r := mux.NewRouter().SkipClean(true)
	r.Use(logRequests)
	for _, b := range bindings {
		h := handlers[b.Name]
		base := "/" + b.Name + "/"

		r.Handle(base, h).Methods(http.MethodGet).Name(b.Name)
		if b.AcceptArguments {
			r.Handle(base+"{"+argsVar+":.+}", h).Methods(http.MethodGet).Name(b.Name + "-args")
		}
		r.Handle("/"+b.Name, http.RedirectHandler(base, http.StatusPermanentRedirect)).Methods(http.MethodGet)

		clog.Debug("route: GET %s -> %q in %s (arguments: %t)", base, b.Argv, b.WorkingDirectory, b.AcceptArguments)
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		clog.Info("%s %s 404", req.Method, req.URL.Path)
		http.NotFound(w, req)
	})
	return r
}

// statusRecorder captures the status and size of a response for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   uint64
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(p []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(p)
	s.size += uint64(n)
	return n, err
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		clog.Info("%s %s %d %s %s from %s",
			r.Method, r.URL.Path, rec.status, humanize.Bytes(rec.size), formatDuration(time.Since(start)), r.RemoteAddr)
	})
}
