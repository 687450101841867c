package skill

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"bitbucket.org/sotavant/alexa-skill-server/internal/config"
	"bitbucket.org/sotavant/alexa-skill-server/internal/logger"
	"bitbucket.org/sotavant/alexa-skill-server/internal/metrics"
	"bitbucket.org/sotavant/alexa-skill-server/internal/middleware"
	"go.uber.org/zap"
	"gopkg.in/tomb.v2"
)

// ErrForcedShutdown is returned by Stop when in-flight requests did not
// finish within the grace window and connections were closed forcibly.
var ErrForcedShutdown = errors.New("server did not stop within the grace window")

// Server owns the HTTP lifecycle around a Skill.
type Server struct {
	cfg      config.Config
	http     *http.Server
	listener net.Listener
	tmb      tomb.Tomb
}

func NewServer(cfg config.Config, s *Skill) *Server {
	return &Server{
		cfg:  cfg,
		http: &http.Server{Handler: Routes(cfg, s)},
	}
}

// Routes builds the handler tree: GET <root> for liveness, POST <root> for
// the webhook and GET /metrics. The webhook sits behind request
// verification when the production flag is set.
func Routes(cfg config.Config, s *Skill) http.Handler {
	root := cfg.RootPath
	if strings.HasSuffix(root, "/") {
		root += "{$}"
	}

	var webhook http.Handler = http.HandlerFunc(s.Webhook)
	if cfg.Production {
		webhook = middleware.Verify(webhook)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+root, s.Info)
	mux.Handle("POST "+root, webhook)
	mux.Handle("GET /metrics", metrics.Handler())

	return logger.RequestLogger(middleware.Gzip(metrics.Middleware(mux).ServeHTTP))
}

// Start binds the listening socket and serves in the background.
func (s *Server) Start() error {
	logger.Log.Info("Starting server...", zap.Stringer("config", s.cfg))

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr(), err)
	}
	s.listener = ln

	s.tmb.Go(func() error {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	logger.Log.Info("Server started listening", zap.String("address", ln.Addr().String()))
	return nil
}

// Addr is the bound address, useful when the configured port is 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.Addr()
	}
	return s.listener.Addr().String()
}

// Dead is closed once the serve loop has exited.
func (s *Server) Dead() <-chan struct{} {
	return s.tmb.Dead()
}

// Stop stops accepting connections and waits for in-flight requests until
// the grace window elapses; after that the remaining connections are closed
// and ErrForcedShutdown is returned.
func (s *Server) Stop() error {
	logger.Log.Info("Stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownGrace)
	defer cancel()

	s.tmb.Kill(nil)
	if err := s.http.Shutdown(ctx); err != nil {
		logger.Log.Error("Unable to stop server - forcefully shutting down now", zap.Error(err))
		_ = s.http.Close()
		_ = s.tmb.Wait()
		return ErrForcedShutdown
	}

	if err := s.tmb.Wait(); err != nil {
		return err
	}
	logger.Log.Info("Server was stopped")
	return nil
}

// Run starts the server and blocks until ctx is done or serving fails.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		logger.Log.Info("Received shutdown signal", zap.Error(context.Cause(ctx)))
	case <-s.Dead():
		logger.Log.Error("server stopped serving", zap.Error(s.tmb.Err()))
	}

	return s.Stop()
}
