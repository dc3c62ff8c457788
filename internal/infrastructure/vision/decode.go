package vision

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"shot-coach/internal/domain/entity"
)

// moveNetValues — размер выхода MoveNet single-pose: 17 точек по [y, x, score].
const moveNetValues = 17 * 3

// decodeMoveNet разбирает выход MoveNet. Координаты нормализованы к кадру.
func decodeMoveNet(out []float32) (entity.KeypointFrame, error) {
	if len(out) < moveNetValues {
		return nil, fmt.Errorf("movenet output: want %d values, got %d", moveNetValues, len(out))
	}
	frame := make(entity.KeypointFrame, len(entity.CanonicalLandmarks))
	for i, name := range entity.CanonicalLandmarks {
		frame[name] = entity.Keypoint{
			Y:          float64(out[i*3]),
			X:          float64(out[i*3+1]),
			Confidence: float64(out[i*3+2]),
		}
	}
	return frame, nil
}

// moveNetInputShape — вход MoveNet single-pose в раскладке NHWC.
func moveNetInputShape(size int) []int {
	return []int{1, size, size, 3}
}

// nhwcInt32 переводит пиксели RGB (по байту на канал, построчно) в int32
// с порядком байт little-endian, как их ждёт тензор CV_32S.
func nhwcInt32(rgb []byte, width, height int) ([]byte, error) {
	want := width * height * 3
	if len(rgb) != want {
		return nil, fmt.Errorf("movenet input: want %d bytes, got %d", want, len(rgb))
	}
	out := make([]byte, want*4)
	for i, v := range rgb {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
	}
	return out, nil
}

// topLabel выбирает класс с максимальной оценкой.
func topLabel(scores []float32, labels []string) (entity.Prediction, bool) {
	if len(scores) == 0 {
		return entity.Prediction{}, false
	}
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	if best >= len(labels) {
		return entity.Prediction{}, false
	}
	return entity.Prediction{Label: labels[best], Confidence: float64(scores[best])}, true
}

// LoadLabels читает имена классов, по одному в строке. Пустые строки и # пропускаются.
func LoadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, entity.NormalizeShotType(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}
	return labels, nil
}
