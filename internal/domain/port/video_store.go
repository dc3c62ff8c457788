package port

import (
	"context"
	"io"
)

// StoredVideo — временный файл с видео одного запроса
type StoredVideo struct {
	Path string
	Size int64

	remove func() error
}

// NewStoredVideo создаёт описание файла с функцией удаления
func NewStoredVideo(path string, size int64, remove func() error) *StoredVideo {
	return &StoredVideo{Path: path, Size: size, remove: remove}
}

// Remove удаляет файл. Повторный вызов безопасен.
func (v *StoredVideo) Remove() error {
	if v == nil || v.remove == nil {
		return nil
	}
	rm := v.remove
	v.remove = nil
	return rm()
}

// VideoStore сохраняет загруженные видео на время обработки
type VideoStore interface {
	// Save копирует не более limit байт; больше — ошибка, файл не остаётся
	Save(ctx context.Context, r io.Reader, limit int64) (*StoredVideo, error)
}
