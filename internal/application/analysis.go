package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"shot-coach/internal/domain/entity"
	"shot-coach/internal/domain/port"
	"shot-coach/internal/domain/rules"
	"shot-coach/internal/infrastructure/metrics"
)

const pipelineFeedback = "feedback"

// AnalysisConfig — параметры разбора техники.
type AnalysisConfig struct {
	MinConfidence float64 // точки ниже порога считаются отсутствующими
	DefaultFPS    int     // если источник не знает частоту кадров
}

// AnalysisService строит покадровый отчёт о технике удара.
type AnalysisService struct {
	frames port.FrameSource
	poses  port.KeypointProvider
	engine *rules.Engine
	logger *zap.Logger
	cfg    AnalysisConfig
}

// NewAnalysisService создаёт сервис разбора техники.
func NewAnalysisService(
	frames port.FrameSource,
	poses port.KeypointProvider,
	engine *rules.Engine,
	logger *zap.Logger,
	cfg AnalysisConfig,
) *AnalysisService {
	if cfg.DefaultFPS <= 0 {
		cfg.DefaultFPS = entity.DefaultFPS
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = rules.NewEngine(nil, logger)
	}
	return &AnalysisService{
		frames: frames,
		poses:  poses,
		engine: engine,
		logger: logger,
		cfg:    cfg,
	}
}

// Analyze проходит видео кадр за кадром и проверяет позу по правилам удара.
// При отказе декодера или модели возвращает *PipelineError и не отдаёт неполный отчёт.
func (s *AnalysisService) Analyze(ctx context.Context, path, shotType string) (*entity.VideoReport, error) {
	if s.frames == nil || s.poses == nil {
		return nil, ErrNotConfigured
	}

	start := time.Now()
	shot := entity.NormalizeShotType(shotType)
	log := s.logger.With(zap.String("pipeline", pipelineFeedback), zap.String("shot_type", shot))

	results := make([]entity.FrameResult, 0, 64)
	fps, err := readFrames(ctx, s.frames, pipelineFeedback, path, log, func(index int, frame entity.Frame) error {
		result, err := s.analyzeFrame(ctx, shot, index, frame)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	metrics.FramesProcessedTotal.WithLabelValues(pipelineFeedback).Add(float64(len(results)))
	if err != nil {
		metrics.VideosProcessedTotal.WithLabelValues(pipelineFeedback, "failed").Inc()
		log.Error("feedback pipeline failed", zap.Int("frames_done", len(results)), zap.Error(err))
		return nil, err
	}

	report := &entity.VideoReport{
		ShotType: shot,
		FPS:      reportFPS(fps, s.cfg.DefaultFPS),
		Frames:   results,
	}

	metrics.VideosProcessedTotal.WithLabelValues(pipelineFeedback, "completed").Inc()
	metrics.PipelineDuration.WithLabelValues(pipelineFeedback).Observe(time.Since(start).Seconds())
	log.Info("feedback report ready",
		zap.Int("frames", len(results)),
		zap.Int("fps", report.FPS),
		zap.Duration("took", time.Since(start)),
	)
	return report, nil
}

func (s *AnalysisService) analyzeFrame(ctx context.Context, shot string, index int, frame entity.Frame) (entity.FrameResult, error) {
	raw, err := s.poses.Infer(ctx, frame)
	if err != nil {
		return entity.FrameResult{}, &PipelineError{Pipeline: pipelineFeedback, Stage: StagePose, Frame: index, Err: err}
	}

	body := raw.FilterConfidence(s.cfg.MinConfidence).Restrict(entity.BodyLandmarks)
	normalized, err := body.Normalize(s.poses.Space(), frame.Width, frame.Height)
	if err != nil {
		// Пустой набор точек нормализовать нечего, размеры кадра не нужны.
		if !errors.Is(err, entity.ErrInvalidFrameSize) || len(body) > 0 {
			return entity.FrameResult{}, &PipelineError{Pipeline: pipelineFeedback, Stage: StageNormalize, Frame: index, Err: err}
		}
		normalized = entity.KeypointFrame{}
	}

	ev := s.engine.Evaluate(shot, normalized)
	for _, id := range ev.Triggered {
		metrics.RuleTriggersTotal.WithLabelValues(shot, id).Inc()
	}
	for _, d := range ev.Skipped {
		metrics.RuleSkipsTotal.WithLabelValues(shot, d.RuleID).Inc()
	}

	return entity.FrameResult{
		FrameIndex: index,
		Keypoints:  normalized.Points(),
		Feedback:   ev.Feedback,
	}, nil
}
