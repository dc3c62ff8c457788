//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"shot-coach/internal/domain/entity"
	"shot-coach/internal/domain/port"
)

// MoveNetProvider находит точки позы моделью MoveNet single-pose (ONNX).
// Модель грузится при первом кадре; Forward сериализован, т.к. dnn.Net не потокобезопасен.
type MoveNetProvider struct {
	inputSize int
	net       *Lazy[*gocv.Net]
	mu        sync.Mutex
}

// NewMoveNetProvider создаёт провайдер. inputSize — сторона квадратного входа модели.
func NewMoveNetProvider(modelPath string, inputSize int, logger *zap.Logger) *MoveNetProvider {
	return &MoveNetProvider{
		inputSize: inputSize,
		net: NewLazy("movenet", func() (*gocv.Net, error) {
			return readNet(modelPath)
		}, logger),
	}
}

// Space — MoveNet отдаёт координаты в долях входного кадра.
func (p *MoveNetProvider) Space() entity.CoordinateSpace {
	return entity.SpaceNormalized
}

// Infer запускает модель на кадре.
func (p *MoveNetProvider) Infer(ctx context.Context, frame entity.Frame) (entity.KeypointFrame, error) {
	_ = ctx
	net, err := p.net.Get()
	if err != nil {
		return nil, err
	}

	mat, err := frameToMat(frame)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	input, err := p.inputTensor(mat)
	if err != nil {
		return nil, err
	}
	defer input.Close()

	p.mu.Lock()
	net.SetInput(input, "")
	out := net.Forward("")
	p.mu.Unlock()
	defer out.Close()

	values, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("movenet output: %w", err)
	}
	return decodeMoveNet(values)
}

// inputTensor готовит вход MoveNet: [1, H, W, 3] int32, RGB 0..255.
// Кадр растягивается до входа модели, поэтому доли входа совпадают с долями кадра.
func (p *MoveNetProvider) inputTensor(bgr gocv.Mat) (gocv.Mat, error) {
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(bgr, &resized, image.Pt(p.inputSize, p.inputSize), 0, 0, gocv.InterpolationLinear)

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(resized, &rgb, gocv.ColorBGRToRGB)

	data, err := nhwcInt32(rgb.ToBytes(), p.inputSize, p.inputSize)
	if err != nil {
		return gocv.NewMat(), err
	}
	tensor, err := gocv.NewMatWithSizesFromBytes(moveNetInputShape(p.inputSize), gocv.MatTypeCV32S, data)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("movenet input: %w", err)
	}
	return tensor, nil
}

func readNet(modelPath string) (*gocv.Net, error) {
	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("read model %s: empty network", modelPath)
	}
	return &net, nil
}

// frameToMat переводит кадр обратно в BGR Mat.
func frameToMat(frame entity.Frame) (gocv.Mat, error) {
	if frame.Image == nil {
		return gocv.NewMat(), errors.New("frame has no image")
	}
	mat, err := gocv.ImageToMatRGB(frame.Image)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("frame to mat: %w", err)
	}
	return mat, nil
}

var _ port.KeypointProvider = (*MoveNetProvider)(nil)
