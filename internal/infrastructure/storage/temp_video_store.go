package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"shot-coach/internal/domain/port"
)

// ErrTooLarge — загрузка превысила допустимый размер.
var ErrTooLarge = errors.New("upload too large")

// TempVideoStore складывает загруженные видео во временный каталог.
type TempVideoStore struct {
	dir string
	ext string
}

// NewTempVideoStore создаёт хранилище. Пустой dir — системный временный каталог.
func NewTempVideoStore(dir string) *TempVideoStore {
	if dir == "" {
		dir = os.TempDir()
	}
	return &TempVideoStore{dir: dir, ext: ".mp4"}
}

// Save копирует поток в файл с уникальным именем. Если данных больше limit,
// файл удаляется и возвращается ErrTooLarge.
func (s *TempVideoStore) Save(ctx context.Context, r io.Reader, limit int64) (*port.StoredVideo, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	path := filepath.Join(s.dir, uuid.NewString()+s.ext)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	remove := func() error {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}

	// Читаем на байт больше лимита, чтобы отличить «ровно limit» от «больше».
	src := io.Reader(&ctxReader{ctx: ctx, r: r})
	if limit > 0 {
		src = io.LimitReader(src, limit+1)
	}
	n, err := io.Copy(f, src)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = remove()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if limit > 0 && n > limit {
		_ = remove()
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	return port.NewStoredVideo(path, n, remove), nil
}

// ctxReader прерывает копирование при отмене контекста.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

var _ port.VideoStore = (*TempVideoStore)(nil)
