package rules

import (
	"fmt"

	"go.uber.org/zap"

	"shot-coach/internal/domain/entity"
)

// Diagnostic — правило, которое не удалось оценить на кадре.
type Diagnostic struct {
	RuleID string
	Err    error
}

// Evaluation — итог проверки одного кадра.
type Evaluation struct {
	Feedback  []entity.Feedback // в порядке правил каталога
	Triggered []string          // id сработавших правил
	Skipped   []Diagnostic
}

// Engine проверяет кадры по каталогу. Безопасен для параллельного использования,
// пока каталог не меняют.
type Engine struct {
	catalog *Catalog
	logger  *zap.Logger
	check   func(Rule, entity.KeypointFrame) (bool, error)
}

// NewEngine создаёт движок. Без каталога используется эталонный.
func NewEngine(catalog *Catalog, logger *zap.Logger) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{catalog: catalog, logger: logger, check: Rule.Check}
}

// Catalog возвращает каталог движка.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Evaluate применяет правила удара к кадру. Ошибка одного правила не мешает остальным:
// такое правило считается несработавшим и попадает в Skipped.
func (e *Engine) Evaluate(shot string, frame entity.KeypointFrame) Evaluation {
	ev := Evaluation{Feedback: []entity.Feedback{}}
	for _, rule := range e.catalog.Rules(shot) {
		triggered, err := e.checkRule(rule, frame)
		if err != nil {
			ev.Skipped = append(ev.Skipped, Diagnostic{RuleID: rule.ID, Err: err})
			e.logger.Debug("rule skipped", zap.String("rule", rule.ID), zap.Error(err))
			continue
		}
		if triggered {
			ev.Triggered = append(ev.Triggered, rule.ID)
			ev.Feedback = append(ev.Feedback, entity.Feedback{
				Severity: entity.SeverityWarning,
				Message:  rule.Message,
			})
		}
	}
	return ev
}

func (e *Engine) checkRule(rule Rule, frame entity.KeypointFrame) (triggered bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			triggered = false
			err = fmt.Errorf("%w: %s: %v", ErrRulePanic, rule.ID, p)
		}
	}()
	return e.check(rule, frame)
}
