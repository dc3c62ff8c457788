package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"shot-coach/internal/domain/port"
	"shot-coach/internal/infrastructure/storage"
)

const (
	fieldFile     = "file"
	fieldShotType = "shot_type"

	// Запас на заголовки multipart и короткие поля формы.
	multipartSlack = 64 * 1024
	maxFieldBytes  = 1024
)

var errBadUpload = errors.New("bad upload")

type upload struct {
	video  *port.StoredVideo
	fields map[string]string
}

// receiveUpload сохраняет поле file во временный файл и читает остальные поля.
// Слишком большой запрос отклоняется до обработки видео.
func receiveUpload(w http.ResponseWriter, r *http.Request, store port.VideoStore, limit int64) (*upload, error) {
	if r.ContentLength > limit+multipartSlack {
		return nil, fmt.Errorf("%w: content length %d", storage.ErrTooLarge, r.ContentLength)
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartSlack)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadUpload, err)
	}

	up := &upload{fields: make(map[string]string)}
	fail := func(err error) (*upload, error) {
		_ = up.video.Remove()
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: %v", storage.ErrTooLarge, err)
		}
		return nil, err
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(fmt.Errorf("%w: %w", errBadUpload, err))
		}

		name := part.FormName()
		switch {
		case name == fieldFile && up.video == nil:
			up.video, err = store.Save(r.Context(), part, limit)
			if err != nil {
				return fail(err)
			}
		case name != "" && name != fieldFile:
			value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
			if err != nil {
				return fail(fmt.Errorf("%w: %w", errBadUpload, err))
			}
			up.fields[name] = string(value)
		}
		part.Close()
	}

	if up.video == nil {
		return nil, fmt.Errorf("%w: file is required", errBadUpload)
	}
	return up, nil
}

func removeUpload(logger *zap.Logger, up *upload) {
	if err := up.video.Remove(); err != nil {
		logger.Warn("failed to remove temp video", zap.String("path", up.video.Path), zap.Error(err))
	}
}
