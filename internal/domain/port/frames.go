package port

import (
	"context"

	"shot-coach/internal/domain/entity"
)

// FrameSource открывает видео для последовательного чтения кадров
type FrameSource interface {
	// Open открывает файл. Ошибка означает, что видео не декодируется.
	Open(ctx context.Context, path string) (FrameStream, error)
}

// FrameStream отдаёт кадры строго по порядку декодирования
type FrameStream interface {
	// FPS возвращает частоту кадров или 0, если она неизвестна
	FPS() float64

	// Next возвращает следующий кадр; io.EOF — конец потока
	Next(ctx context.Context) (entity.Frame, error)

	// Close освобождает декодер
	Close() error
}
