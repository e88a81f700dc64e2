// Package server exposes fonts catalog over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"wfr/config"
	"wfr/webfont"
)

// snapshot is everything requests need, replaced as a whole on reload.
type snapshot struct {
	cfg     *config.Config
	catalog *webfont.Catalog
	// err is catalog build failure, reported to every request until the
	// next reload.
	err error
	mux *http.ServeMux
}

// Server serves generated CSS. It is safe for concurrent use, Reload may be
// called while requests are in flight.
type Server struct {
	base    *zap.Logger
	log     *zap.Logger
	rpt     *config.Report
	current atomic.Pointer[snapshot]
}

// New creates server and builds fonts catalog from cfg. Catalog build
// failure does not prevent server from starting.
func New(cfg *config.Config, log *zap.Logger, rpt *config.Report) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{base: log, log: log.Named("server"), rpt: rpt}
	s.Reload(cfg)
	return s
}

// Reload rebuilds catalog from cfg and atomically replaces current one.
// Listening address is never changed.
func (s *Server) Reload(cfg *config.Config) {
	snap := &snapshot{cfg: cfg}
	snap.catalog, snap.err = cfg.Catalog(s.base)
	if snap.err != nil {
		s.log.Error("Unable to build fonts catalog", zap.Error(snap.err))
	} else {
		s.log.Info("Fonts catalog ready",
			zap.Int("families", len(snap.catalog.Families())),
			zap.String("fonts", snap.catalog.FontsDirectoryURL()))
	}
	snap.mux = s.routes(snap)

	if old := s.current.Swap(snap); old != nil && old.cfg.Server.Listen != cfg.Server.Listen {
		s.log.Warn("Listening address change requires restart", zap.String("address", old.cfg.Server.Listen))
	}
}

// Handler returns root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.withRequestLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.current.Load().mux.ServeHTTP(w, r)
	}))
}

func (s *Server) routes(snap *snapshot) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /css", func(w http.ResponseWriter, r *http.Request) {
		s.serveCSS(snap, w, r)
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		s.serveIndex(snap, w, r)
	})
	if snap.cfg.Server.ServeFiles && snap.catalog != nil && snap.catalog.FontsPath() != "" {
		prefix := "/" + snap.catalog.FontsDirectory() + "/"
		mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(snap.catalog.FontsPath()))))
	}
	return mux
}

// Run listens on configured address and serves until ctx is done, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.current.Load().cfg.Server.Listen
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("unable to listen on '%s': %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(s.log),
	}

	s.log.Info("Serving", zap.String("address", ln.Addr().String()))
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), s.current.Load().cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("unable to shutdown server gracefully: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	s.log.Info("Server stopped")
	return nil
}

// WatchReload reloads configuration with load and rebuilds catalog every time
// trigger fires, until ctx is done. Configuration which cannot be loaded is
// logged and current one is kept.
func (s *Server) WatchReload(ctx context.Context, trigger <-chan os.Signal, load func() (*config.Config, error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-trigger:
			s.log.Info("Reloading configuration", zap.Stringer("signal", sig))
			cfg, err := load()
			if err != nil {
				s.log.Error("Unable to reload configuration, keeping current one", zap.Error(err))
				continue
			}
			s.Reload(cfg)
		}
	}
}
