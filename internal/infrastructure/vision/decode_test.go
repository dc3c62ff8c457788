package vision

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"shot-coach/internal/domain/entity"
)

func TestDecodeMoveNet(t *testing.T) {
	out := make([]float32, moveNetValues)
	// right_wrist — индекс 10
	out[30], out[31], out[32] = 0.75, 0.25, 0.5

	frame, err := decodeMoveNet(out)
	require.NoError(t, err)
	require.Len(t, frame, 17)
	require.Equal(t, entity.Keypoint{X: 0.25, Y: 0.75, Confidence: 0.5}, frame[entity.RightWrist])

	_, err = decodeMoveNet(out[:10])
	require.Error(t, err)
}

func TestDecodeMoveNet_OutputTensorShape(t *testing.T) {
	// выход модели [1, 1, 17, 3] приходит плоским срезом в порядке строк
	var tensor [1][1][17][3]float32
	for i := range tensor[0][0] {
		tensor[0][0][i] = [3]float32{0.1 + 0.01*float32(i), 0.9 - 0.01*float32(i), 0.5}
	}
	flat := make([]float32, 0, moveNetValues)
	for _, kp := range tensor[0][0] {
		flat = append(flat, kp[:]...)
	}
	require.Len(t, flat, moveNetValues)

	frame, err := decodeMoveNet(flat)
	require.NoError(t, err)
	require.Len(t, frame, len(entity.CanonicalLandmarks))

	nose := frame[entity.Nose]
	require.InDelta(t, 0.9, nose.X, 1e-6)
	require.InDelta(t, 0.1, nose.Y, 1e-6)

	ankle := frame[entity.RightAnkle]
	require.InDelta(t, 0.74, ankle.X, 1e-6)
	require.InDelta(t, 0.26, ankle.Y, 1e-6)
	require.InDelta(t, 0.5, ankle.Confidence, 1e-6)
}

func TestNHWCInt32(t *testing.T) {
	require.Equal(t, []int{1, 192, 192, 3}, moveNetInputShape(192))

	// 1x2 кадр: два пикселя RGB
	out, err := nhwcInt32([]byte{1, 2, 255, 0, 128, 7}, 2, 1)
	require.NoError(t, err)
	require.Len(t, out, 6*4)
	require.Equal(t, []byte{255, 0, 0, 0}, out[8:12])
	require.Equal(t, []byte{128, 0, 0, 0}, out[16:20])

	_, err = nhwcInt32([]byte{1, 2, 3}, 2, 1)
	require.Error(t, err)
}

func TestTopLabel(t *testing.T) {
	labels := []string{"clear", "drop", "smash"}

	pred, ok := topLabel([]float32{0.1, 0.2, 0.7}, labels)
	require.True(t, ok)
	require.Equal(t, "smash", pred.Label)
	require.InDelta(t, 0.7, pred.Confidence, 1e-6)

	_, ok = topLabel(nil, labels)
	require.False(t, ok)

	_, ok = topLabel([]float32{0, 0, 0, 1}, labels)
	require.False(t, ok)
}

func TestLoadLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("# classes\nClear\n\nsmash\n"), 0o600))

	labels, err := LoadLabels(path)
	require.NoError(t, err)
	require.Equal(t, []string{"clear", "smash"}, labels)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = LoadLabels(empty)
	require.Error(t, err)
}
