package rest

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"shot-coach/internal/domain/entity"
	"shot-coach/internal/domain/port"
)

// Analyzer строит покадровый отчёт о технике.
type Analyzer interface {
	Analyze(ctx context.Context, path, shotType string) (*entity.VideoReport, error)
}

// Classifier определяет тип удара по видео.
type Classifier interface {
	Classify(ctx context.Context, path string) (string, error)
}

type ServerConfig struct {
	Addr           string
	Analyzer       Analyzer
	Classifier     Classifier
	Store          port.VideoStore
	MaxUploadBytes int64
	RequestTimeout time.Duration
	Logger         *zap.Logger
	StartTime      time.Time
}

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(cfg),
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
