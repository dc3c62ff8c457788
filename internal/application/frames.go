package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"

	"shot-coach/internal/domain/entity"
	"shot-coach/internal/domain/port"
)

// readFrames открывает видео и передаёт кадры visit по порядку до конца потока.
// Поток закрывается на любом пути выхода.
func readFrames(
	ctx context.Context,
	source port.FrameSource,
	pipeline, path string,
	log *zap.Logger,
	visit func(index int, frame entity.Frame) error,
) (fps float64, err error) {
	stream, err := source.Open(ctx, path)
	if err != nil {
		return 0, &PipelineError{
			Pipeline: pipeline,
			Stage:    StageOpen,
			Frame:    -1,
			Err:      fmt.Errorf("%w: %w", ErrDecode, err),
		}
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil {
			log.Warn("failed to close frame stream", zap.Error(cerr))
		}
	}()

	fps = stream.FPS()
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return fps, err
		}

		frame, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			return fps, nil
		}
		if err != nil {
			return fps, &PipelineError{Pipeline: pipeline, Stage: StageDecode, Frame: index, Err: err}
		}

		if err := visit(index, frame); err != nil {
			return fps, err
		}
	}
}

// reportFPS приводит частоту источника к целому, как её отдаёт декодер.
func reportFPS(fps float64, fallback int) int {
	if math.IsNaN(fps) || math.IsInf(fps, 0) || fps < 1 {
		return fallback
	}
	return int(fps)
}
