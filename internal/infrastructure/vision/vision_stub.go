//go:build !gocv
// +build !gocv

package vision

import (
	"context"

	"go.uber.org/zap"

	"shot-coach/internal/domain/entity"
	"shot-coach/internal/domain/port"
)

// VideoFrameSource — заглушка без OpenCV.
type VideoFrameSource struct{}

// NewVideoFrameSource создаёт источник-заглушку (без OpenCV).
func NewVideoFrameSource(logger *zap.Logger) *VideoFrameSource {
	_ = logger
	return &VideoFrameSource{}
}

// Open возвращает ошибку, если сборка без тега gocv.
func (s *VideoFrameSource) Open(ctx context.Context, path string) (port.FrameStream, error) {
	_ = ctx
	_ = path
	return nil, ErrDisabled
}

// MoveNetProvider — заглушка без OpenCV.
type MoveNetProvider struct{}

// NewMoveNetProvider создаёт провайдер-заглушку.
func NewMoveNetProvider(modelPath string, inputSize int, logger *zap.Logger) *MoveNetProvider {
	_, _, _ = modelPath, inputSize, logger
	return &MoveNetProvider{}
}

// Space совпадает с настоящим провайдером: координаты в долях кадра.
func (p *MoveNetProvider) Space() entity.CoordinateSpace {
	return entity.SpaceNormalized
}

// Infer возвращает ошибку, если сборка без тега gocv.
func (p *MoveNetProvider) Infer(ctx context.Context, frame entity.Frame) (entity.KeypointFrame, error) {
	_ = ctx
	_ = frame
	return nil, ErrDisabled
}

// NetClassifier — заглушка без OpenCV.
type NetClassifier struct{}

// NewNetClassifier создаёт классификатор-заглушку.
func NewNetClassifier(modelPath, labelsPath string, inputSize int, logger *zap.Logger) *NetClassifier {
	_, _, _, _ = modelPath, labelsPath, inputSize, logger
	return &NetClassifier{}
}

// Classify возвращает ошибку, если сборка без тега gocv.
func (c *NetClassifier) Classify(ctx context.Context, frame entity.Frame) (entity.Prediction, bool, error) {
	_ = ctx
	_ = frame
	return entity.Prediction{}, false, ErrDisabled
}

var (
	_ port.FrameSource      = (*VideoFrameSource)(nil)
	_ port.KeypointProvider = (*MoveNetProvider)(nil)
	_ port.ShotClassifier   = (*NetClassifier)(nil)
)
