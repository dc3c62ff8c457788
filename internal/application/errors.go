package app

import (
	"errors"
	"fmt"
)

var (
	// ErrInfrastructure — отказ декодера или модели, отчёт не получен.
	ErrInfrastructure = errors.New("pipeline infrastructure failure")
	// ErrDecode — видео не удалось открыть.
	ErrDecode = errors.New("video cannot be decoded")
	// ErrNotConfigured — у сервиса нет нужного компонента.
	ErrNotConfigured = errors.New("service is not configured")
)

// Этапы конвейера для PipelineError.
const (
	StageOpen      = "open"
	StageDecode    = "decode"
	StagePose      = "pose"
	StageNormalize = "normalize"
	StageClassify  = "classify"
)

// PipelineError — конвейер остановлен на кадре Frame. На этапе StageOpen это
// нечитаемое видео (ErrDecode), на остальных — отказ инфраструктуры.
// Frame равен -1, если кадр ещё не читался.
type PipelineError struct {
	Pipeline string
	Stage    string
	Frame    int
	Err      error
}

func (e *PipelineError) Error() string {
	if e.Frame < 0 {
		return fmt.Sprintf("%s pipeline: %s: %v", e.Pipeline, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s pipeline: %s at frame %d: %v", e.Pipeline, e.Stage, e.Frame, e.Err)
}

// Unwrap: видео, которое не открылось, — ошибка входа, а не инфраструктуры.
func (e *PipelineError) Unwrap() []error {
	if e.Stage == StageOpen {
		return []error{e.Err}
	}
	return []error{ErrInfrastructure, e.Err}
}
