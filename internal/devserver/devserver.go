// Package devserver serves a development build over HTTP and tells open
// pages to reload when the build changes. Pages receive a small client script
// that listens on a socket.io channel for "reload" events.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/specialistvlad/lyke/internal/ctxlog"
	"github.com/specialistvlad/lyke/internal/markup"
	"github.com/zishang520/socket.io/v2/socket"
)

// ReloadEvent is emitted to every connected page after a successful build.
const ReloadEvent = "reload"

// ReloadScript is appended to the served page's <body>.
const ReloadScript = `<script src="/socket.io/socket.io.min.js"></script>` +
	`<script>/* code inserted by lyke */;(function(){var s=io();` +
	`s.on("connect",function(){console.log("[lyke] live reload enabled")});` +
	`s.on("` + ReloadEvent + `",function(){window.location.reload()})})();</script>`

// Server serves the output directory of a build.
type Server struct {
	port      int
	outputDir string
	indexPath string
	io        *socket.Server
	ioOpts    *socket.ServerOptions
}

// New creates a Server for the build whose output directory is outputDir and
// whose compiled markup lives at indexPath.
func New(port int, outputDir, indexPath string) *Server {
	opts := socket.DefaultServerOptions()
	opts.SetServeClient(true)
	return &Server{
		port:      port,
		outputDir: outputDir,
		indexPath: indexPath,
		io:        socket.NewServer(nil, opts),
		ioOpts:    opts,
	}
}

// Handler returns the HTTP handler of the dev server.
func (s *Server) Handler(ctx context.Context) http.Handler {
	logger := ctxlog.FromContext(ctx)
	s.io.On("connection", func(clients ...any) {
		if client, ok := clients[0].(*socket.Socket); ok {
			logger.Debug("Live reload client connected.", "sid", client.Id())
		}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		s.serveIndex(ctx, w, r)
	})
	mux.Handle("/socket.io/", s.io.ServeHandler(s.ioOpts))
	mux.Handle("/", http.FileServer(http.Dir(s.outputDir)))
	return mux
}

// serveIndex sends the compiled markup with the reload client appended.
func (s *Server) serveIndex(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Index requested.", "remote_addr", r.RemoteAddr)

	content, err := os.ReadFile(s.indexPath)
	if err != nil {
		logger.Warn("Index not available.", "path", s.indexPath, "error", err)
		http.Error(w, "build output not available yet", http.StatusServiceUnavailable)
		return
	}

	page, err := injectReload(string(content))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	fmt.Fprint(w, page)
}

func injectReload(text string) (string, error) {
	doc, err := markup.Parse(text)
	if err != nil {
		return "", err
	}
	body := doc.Root()
	if !doc.IsFragment() {
		body = doc.First("body")
	}
	if err := doc.AppendHTML(body, ReloadScript); err != nil {
		return "", err
	}
	return doc.Render()
}

// Reload tells every connected page to reload.
func (s *Server) Reload(ctx context.Context) {
	ctxlog.FromContext(ctx).Debug("Broadcasting reload.")
	s.io.Emit(ReloadEvent)
}

// ListenAndServe serves until ctx is done, then shuts the server down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("dev server failed: %w", err)
	}
	srv := &http.Server{Handler: s.Handler(ctx)}

	port := s.port
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	logger.Info("🚀 Dev server started", "address", fmt.Sprintf("http://localhost:%d", port))

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		// Serve returns ErrServerClosed on graceful shutdown.
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("dev server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("Shutting down dev server...")
	s.io.Close(nil)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dev server shutdown failed: %w", err)
	}
	logger.Debug("Dev server shut down gracefully.")
	return nil
}
