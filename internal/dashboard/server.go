// Package dashboard serves the survey dashboard: an HTML page plus a JSON API
// that re-runs the aggregations on every request against a dataset loaded once.
package dashboard

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/KaramelBytes/mhdash/internal/dataset"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/index.html
var templatesFS embed.FS

// Loader produces the dataset served by the dashboard. It is called until it
// succeeds once.
type Loader func(ctx context.Context) (*dataset.Dataset, error)

// Server is the dashboard HTTP server.
type Server struct {
	router    *gin.Engine
	logger    *zap.Logger
	load      Loader
	page      []byte
	condition string

	mu   sync.Mutex
	data *dataset.Dataset
}

// NewServer wires routes and middleware. conditionColumn names the column the
// condition filter applies to; empty means the survey default. The dataset is
// not loaded until the first call to Dataset or Run.
func NewServer(load Loader, conditionColumn string, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	page, err := templatesFS.ReadFile("templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("read index template: %w", err)
	}
	if conditionColumn == "" {
		conditionColumn = dataset.ColCondition
	}
	s := &Server{router: gin.New(), logger: logger, load: load, page: page, condition: conditionColumn}
	s.router.Use(gin.Recovery(), requestLogger(logger))
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/report", s.handleReport)

	api := s.router.Group("/api")
	api.GET("/options", s.handleOptions)
	api.GET("/views", s.handleViews)
	api.GET("/count", s.handleCount)
	api.GET("/proportions", s.handleProportions)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Dataset returns the cached dataset, loading it on first use. The result is
// shared by all requests and never modified. Failed loads are not cached, so a
// later call retries.
func (s *Server) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data != nil {
		return s.data, nil
	}
	start := time.Now()
	ds, err := s.load(ctx)
	if err != nil {
		s.logger.Error("dataset load failed", zap.Error(err))
		return nil, err
	}
	s.data = ds
	s.logger.Info("dataset loaded",
		zap.String("dataset", ds.Name()),
		zap.Int("rows", ds.Len()),
		zap.Duration("took", time.Since(start)))
	return ds, nil
}

// Run loads the dataset, then serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	if _, err := s.Dataset(ctx); err != nil {
		return err
	}
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("dashboard listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down dashboard")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
