package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	app "shot-coach/internal/application"
	"shot-coach/internal/infrastructure/metrics"
	"shot-coach/internal/infrastructure/storage"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Handle("/metrics", metrics.Handler())

	r.Post("/classify_shot", classifyShotHandler(cfg))
	r.Post("/compare_pose", comparePoseHandler(cfg))

	return r
}

type HealthResponse struct {
	Status  string `json:"status"`
	UptimeS int64  `json:"uptime_s"`
}

type ClassifyResponse struct {
	ShotType string `json:"shot_type"`
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func classifyShotHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up, err := receiveUpload(w, r, cfg.Store, cfg.MaxUploadBytes)
		if err != nil {
			writeUploadError(w, err)
			return
		}
		defer removeUpload(cfg.Logger, up)

		ctx, cancel := requestContext(r.Context(), cfg.RequestTimeout)
		defer cancel()

		label, err := cfg.Classifier.Classify(ctx, up.video.Path)
		if err != nil {
			writePipelineError(w, cfg.Logger, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, ClassifyResponse{ShotType: label})
	}
}

func comparePoseHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up, err := receiveUpload(w, r, cfg.Store, cfg.MaxUploadBytes)
		if err != nil {
			writeUploadError(w, err)
			return
		}
		defer removeUpload(cfg.Logger, up)

		shotType := strings.TrimSpace(up.fields[fieldShotType])
		if shotType == "" {
			WriteError(w, http.StatusBadRequest, "shot_type is required", "BAD_REQUEST")
			return
		}

		ctx, cancel := requestContext(r.Context(), cfg.RequestTimeout)
		defer cancel()

		report, err := cfg.Analyzer.Analyze(ctx, up.video.Path, shotType)
		if err != nil {
			writePipelineError(w, cfg.Logger, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, report)
	}
}

func requestContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, "file too large", "FILE_TOO_LARGE")
	case errors.Is(err, errBadUpload):
		WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
	default:
		WriteError(w, http.StatusInternalServerError, "failed to store upload", "INTERNAL_ERROR")
	}
}

func writePipelineError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	logger.Warn("video pipeline failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestID(r.Context())),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, app.ErrDecode):
		WriteError(w, http.StatusUnprocessableEntity, "video cannot be decoded", "UNDECODABLE_VIDEO")
	case errors.Is(err, context.DeadlineExceeded):
		WriteError(w, http.StatusGatewayTimeout, "video processing timed out", "TIMEOUT")
	case errors.Is(err, app.ErrInfrastructure):
		WriteError(w, http.StatusBadGateway, "video processing failed", "PIPELINE_FAILED")
	case errors.Is(err, app.ErrNotConfigured):
		WriteError(w, http.StatusServiceUnavailable, "service is not configured", "NOT_CONFIGURED")
	default:
		WriteError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
