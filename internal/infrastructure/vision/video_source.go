//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"shot-coach/internal/domain/entity"
	"shot-coach/internal/domain/port"
)

// VideoFrameSource декодирует видеофайлы через OpenCV.
type VideoFrameSource struct {
	logger *zap.Logger
}

// NewVideoFrameSource создаёт источник кадров.
func NewVideoFrameSource(logger *zap.Logger) *VideoFrameSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VideoFrameSource{logger: logger}
}

// Open открывает видеофайл для последовательного чтения.
func (s *VideoFrameSource) Open(ctx context.Context, path string) (port.FrameStream, error) {
	_ = ctx
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, errors.New("open video: capture is not opened")
	}

	fps := capture.Get(gocv.VideoCaptureFPS)
	s.logger.Debug("video opened", zap.String("path", path), zap.Float64("fps", fps))
	return &videoStream{capture: capture, mat: gocv.NewMat(), fps: fps}, nil
}

type videoStream struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
	fps     float64
	done    bool
}

func (v *videoStream) FPS() float64 { return v.fps }

// Next читает следующий кадр. Read=false — конец потока, как у OpenCV.
func (v *videoStream) Next(ctx context.Context) (entity.Frame, error) {
	if err := ctx.Err(); err != nil {
		return entity.Frame{}, err
	}
	if v.done || !v.capture.Read(&v.mat) {
		v.done = true
		return entity.Frame{}, io.EOF
	}
	if v.mat.Empty() {
		return entity.Frame{}, errors.New("decode frame: empty mat")
	}

	img, err := v.mat.ToImage()
	if err != nil {
		return entity.Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	return entity.Frame{Width: v.mat.Cols(), Height: v.mat.Rows(), Image: img}, nil
}

func (v *videoStream) Close() error {
	v.mat.Close()
	return v.capture.Close()
}

var _ port.FrameSource = (*VideoFrameSource)(nil)
