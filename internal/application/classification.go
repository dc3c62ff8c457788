package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shot-coach/internal/domain/entity"
	"shot-coach/internal/domain/port"
	"shot-coach/internal/infrastructure/metrics"
)

const pipelineClassify = "classify"

// ClassificationService определяет тип удара по видео голосованием кадров.
type ClassificationService struct {
	frames        port.FrameSource
	classifier    port.ShotClassifier
	logger        *zap.Logger
	minConfidence float64
}

// NewClassificationService создаёт сервис. Кадры с уверенностью ниже
// minConfidence не голосуют.
func NewClassificationService(
	frames port.FrameSource,
	classifier port.ShotClassifier,
	logger *zap.Logger,
	minConfidence float64,
) *ClassificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassificationService{
		frames:        frames,
		classifier:    classifier,
		logger:        logger,
		minConfidence: minConfidence,
	}
}

// Classify возвращает метку большинства или entity.UnknownShot, если голосов нет.
func (s *ClassificationService) Classify(ctx context.Context, path string) (string, error) {
	votes, err := s.Votes(ctx, path)
	if err != nil {
		return "", err
	}
	return MajorityVote(votes), nil
}

// Votes собирает покадровые голоса в порядке декодирования.
func (s *ClassificationService) Votes(ctx context.Context, path string) ([]string, error) {
	if s.frames == nil || s.classifier == nil {
		return nil, ErrNotConfigured
	}

	start := time.Now()
	log := s.logger.With(zap.String("pipeline", pipelineClassify))

	var votes []string
	frames := 0
	_, err := readFrames(ctx, s.frames, pipelineClassify, path, log, func(index int, frame entity.Frame) error {
		frames++
		pred, ok, err := s.classifier.Classify(ctx, frame)
		if err != nil {
			return &PipelineError{Pipeline: pipelineClassify, Stage: StageClassify, Frame: index, Err: err}
		}
		if !ok || pred.Label == "" || pred.Confidence < s.minConfidence {
			return nil
		}
		votes = append(votes, pred.Label)
		metrics.ClassificationVotesTotal.WithLabelValues(pred.Label).Inc()
		return nil
	})
	metrics.FramesProcessedTotal.WithLabelValues(pipelineClassify).Add(float64(frames))
	if err != nil {
		metrics.VideosProcessedTotal.WithLabelValues(pipelineClassify, "failed").Inc()
		log.Error("classification pipeline failed", zap.Int("frames_done", frames), zap.Error(err))
		return nil, err
	}

	metrics.VideosProcessedTotal.WithLabelValues(pipelineClassify, "completed").Inc()
	metrics.PipelineDuration.WithLabelValues(pipelineClassify).Observe(time.Since(start).Seconds())
	log.Info("classification votes collected",
		zap.Int("frames", frames),
		zap.Int("votes", len(votes)),
		zap.Duration("took", time.Since(start)),
	)
	return votes, nil
}
