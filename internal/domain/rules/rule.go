// Package rules описывает правила техники ударов и движок их проверки.
//
// Правило — это данные: метрика над точками позы, оператор сравнения,
// порог и текст замечания. Замечание выдаётся, когда условие выполнено.
package rules

import (
	"errors"
	"fmt"
	"math"

	"shot-coach/internal/domain/entity"
	"shot-coach/internal/domain/geometry"
)

var (
	// ErrMissingLandmark — в кадре нет точки, нужной правилу.
	ErrMissingLandmark = errors.New("missing landmark")
	// ErrNonFinite — метрика получилась NaN или бесконечностью.
	ErrNonFinite = errors.New("non-finite metric")
	// ErrInvalidRule — правило каталога описано некорректно.
	ErrInvalidRule = errors.New("invalid rule")
	// ErrRulePanic — проверка правила аварийно завершилась.
	ErrRulePanic = errors.New("rule check panicked")
)

// Metric — величина, которую считает правило.
type Metric string

const (
	// VerticalOffset = a.y - b.y. Отрицательное значение: a выше b.
	VerticalOffset Metric = "vertical_offset"
	// JointAngle = угол при вершине b между a и c, в градусах.
	JointAngle Metric = "joint_angle"
	// VerticalSpread = |a.y - b.y|.
	VerticalSpread Metric = "vertical_spread"
)

// Arity — сколько точек нужно метрике.
func (m Metric) Arity() int {
	switch m {
	case VerticalOffset, VerticalSpread:
		return 2
	case JointAngle:
		return 3
	default:
		return 0
	}
}

func (m Metric) compute(p []entity.Keypoint) (float64, error) {
	switch m {
	case VerticalOffset:
		return p[0].Y - p[1].Y, nil
	case VerticalSpread:
		return math.Abs(p[0].Y - p[1].Y), nil
	case JointAngle:
		return geometry.Angle(p[0], p[1], p[2]), nil
	default:
		return 0, fmt.Errorf("%w: unknown metric %q", ErrInvalidRule, m)
	}
}

// Op — оператор сравнения метрики с порогом.
type Op string

const (
	Less         Op = "lt"
	LessEqual    Op = "le"
	Greater      Op = "gt"
	GreaterEqual Op = "ge"
)

func (o Op) compare(v, threshold float64) (bool, error) {
	switch o {
	case Less:
		return v < threshold, nil
	case LessEqual:
		return v <= threshold, nil
	case Greater:
		return v > threshold, nil
	case GreaterEqual:
		return v >= threshold, nil
	default:
		return false, fmt.Errorf("%w: unknown op %q", ErrInvalidRule, o)
	}
}

// Rule — одна проверка техники.
type Rule struct {
	ID        string            `yaml:"id"`
	Metric    Metric            `yaml:"metric"`
	Landmarks []entity.Landmark `yaml:"landmarks,flow"`
	Op        Op                `yaml:"op"`
	Threshold float64           `yaml:"threshold"`
	Message   string            `yaml:"message"`
}

// Validate проверяет, что правило можно исполнить.
func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRule)
	}
	if r.Message == "" {
		return fmt.Errorf("%w: rule %s: empty message", ErrInvalidRule, r.ID)
	}
	arity := r.Metric.Arity()
	if arity == 0 {
		return fmt.Errorf("%w: rule %s: unknown metric %q", ErrInvalidRule, r.ID, r.Metric)
	}
	if len(r.Landmarks) != arity {
		return fmt.Errorf("%w: rule %s: metric %s needs %d landmarks, got %d",
			ErrInvalidRule, r.ID, r.Metric, arity, len(r.Landmarks))
	}
	for _, l := range r.Landmarks {
		if !l.Valid() {
			return fmt.Errorf("%w: rule %s: unknown landmark %q", ErrInvalidRule, r.ID, l)
		}
	}
	if _, err := r.Op.compare(0, 0); err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}
	return nil
}

// Value считает метрику правила на кадре.
func (r Rule) Value(frame entity.KeypointFrame) (float64, error) {
	if len(r.Landmarks) != r.Metric.Arity() {
		return 0, fmt.Errorf("%w: rule %s: landmark count", ErrInvalidRule, r.ID)
	}
	points := make([]entity.Keypoint, len(r.Landmarks))
	for i, l := range r.Landmarks {
		kp, ok := frame.Get(l)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingLandmark, l)
		}
		points[i] = kp
	}

	v, err := r.Metric.compute(points)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: rule %s", ErrNonFinite, r.ID)
	}
	return v, nil
}

// Check сообщает, сработало ли правило на кадре.
// Ошибка означает, что правило не удалось оценить.
func (r Rule) Check(frame entity.KeypointFrame) (bool, error) {
	v, err := r.Value(frame)
	if err != nil {
		return false, err
	}
	return r.Op.compare(v, r.Threshold)
}
