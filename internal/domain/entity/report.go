package entity

import (
	"image"
	"strings"
)

// UnknownShot — метка, когда ни один кадр не дал голоса.
const UnknownShot = "unknown"

// DefaultFPS используется, если источник не сообщил частоту кадров.
const DefaultFPS = 30

// NormalizeShotType приводит идентификатор удара к нижнему регистру.
func NormalizeShotType(shot string) string {
	return strings.ToLower(strings.TrimSpace(shot))
}

// Frame — один декодированный кадр видео.
type Frame struct {
	Width  int
	Height int
	Image  image.Image
}

// Severity — уровень замечания
type Severity string

const SeverityWarning Severity = "warning"

// Feedback — одно сработавшее правило.
type Feedback struct {
	Severity Severity `json:"type"`
	Message  string   `json:"message"`
}

// FrameResult — результат анализа одного кадра.
type FrameResult struct {
	FrameIndex int                `json:"frame_index"`
	Keypoints  map[Landmark]Point `json:"keypoints"`
	Feedback   []Feedback         `json:"feedback"`
}

// VideoReport — полный отчёт по видео, кадры в порядке декодирования.
type VideoReport struct {
	ShotType string        `json:"shot_type"`
	FPS      int           `json:"fps"`
	Frames   []FrameResult `json:"frames"`
}

// FeedbackCount — сколько кадров получили одно и то же замечание.
type FeedbackCount struct {
	Message string
	Frames  int
}

// Summary сворачивает замечания по кадрам. Порядок — по первому появлению.
func (r *VideoReport) Summary() []FeedbackCount {
	index := make(map[string]int)
	var out []FeedbackCount
	for _, fr := range r.Frames {
		for _, fb := range fr.Feedback {
			i, ok := index[fb.Message]
			if !ok {
				i = len(out)
				index[fb.Message] = i
				out = append(out, FeedbackCount{Message: fb.Message})
			}
			out[i].Frames++
		}
	}
	return out
}

// Prediction — предсказание классификатора для одного кадра.
type Prediction struct {
	Label      string
	Confidence float64
}
