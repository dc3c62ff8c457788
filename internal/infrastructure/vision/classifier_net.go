//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"shot-coach/internal/domain/entity"
	"shot-coach/internal/domain/port"
)

type classifierModel struct {
	net    *gocv.Net
	labels []string
}

// NetClassifier определяет тип удара по кадру классификационной сетью (ONNX).
type NetClassifier struct {
	inputSize int
	model     *Lazy[*classifierModel]
	mu        sync.Mutex
}

// NewNetClassifier создаёт классификатор. Модель и метки читаются при первом кадре.
func NewNetClassifier(modelPath, labelsPath string, inputSize int, logger *zap.Logger) *NetClassifier {
	return &NetClassifier{
		inputSize: inputSize,
		model: NewLazy("shot_classifier", func() (*classifierModel, error) {
			labels, err := LoadLabels(labelsPath)
			if err != nil {
				return nil, err
			}
			net, err := readNet(modelPath)
			if err != nil {
				return nil, err
			}
			return &classifierModel{net: net, labels: labels}, nil
		}, logger),
	}
}

// Classify возвращает класс с наибольшей вероятностью.
func (c *NetClassifier) Classify(ctx context.Context, frame entity.Frame) (entity.Prediction, bool, error) {
	_ = ctx
	model, err := c.model.Get()
	if err != nil {
		return entity.Prediction{}, false, err
	}

	mat, err := frameToMat(frame)
	if err != nil {
		return entity.Prediction{}, false, err
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(c.inputSize, c.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	c.mu.Lock()
	model.net.SetInput(blob, "")
	out := model.net.Forward("")
	c.mu.Unlock()
	defer out.Close()

	scores, err := out.DataPtrFloat32()
	if err != nil {
		return entity.Prediction{}, false, fmt.Errorf("classifier output: %w", err)
	}
	pred, ok := topLabel(scores, model.labels)
	return pred, ok, nil
}

var _ port.ShotClassifier = (*NetClassifier)(nil)
