package port

import (
	"context"

	"shot-coach/internal/domain/entity"
)

// KeypointProvider интерфейс модели позы
type KeypointProvider interface {
	// Infer возвращает точки одного кадра. Пустой результат — человек не найден.
	Infer(ctx context.Context, frame entity.Frame) (entity.KeypointFrame, error)

	// Space — система координат результата, неизменна для экземпляра
	Space() entity.CoordinateSpace
}

// ShotClassifier интерфейс модели классификации удара
type ShotClassifier interface {
	// Classify возвращает предсказание для кадра; ok=false — кадр без голоса
	Classify(ctx context.Context, frame entity.Frame) (pred entity.Prediction, ok bool, err error)
}
