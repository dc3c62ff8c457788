package vision

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"shot-coach/internal/infrastructure/metrics"
)

// ErrDisabled — сборка без тега gocv, модели и декодер недоступны.
var ErrDisabled = errors.New("gocv build tag is not enabled")

// Lazy загружает значение один раз за время жизни процесса.
// Параллельные первые вызовы ждут единственную загрузку; ошибка загрузки запоминается.
type Lazy[T any] struct {
	name   string
	load   func() (T, error)
	logger *zap.Logger

	once  sync.Once
	value T
	err   error
}

// NewLazy создаёт ленивую загрузку модели name.
func NewLazy[T any](name string, load func() (T, error), logger *zap.Logger) *Lazy[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lazy[T]{name: name, load: load, logger: logger}
}

// Get возвращает загруженное значение.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		l.value, l.err = l.load()
		if l.err != nil {
			metrics.ModelLoadsTotal.WithLabelValues(l.name, "failed").Inc()
			l.logger.Error("model load failed", zap.String("model", l.name), zap.Error(l.err))
			return
		}
		metrics.ModelLoadsTotal.WithLabelValues(l.name, "loaded").Inc()
		l.logger.Info("model loaded", zap.String("model", l.name))
	})
	return l.value, l.err
}
