package container

import (
	"fmt"

	"go.uber.org/zap"

	"shot-coach/config"
	app "shot-coach/internal/application"
	"shot-coach/internal/domain/port"
	"shot-coach/internal/domain/rules"
	"shot-coach/internal/infrastructure/storage"
	"shot-coach/internal/infrastructure/vision"
	"shot-coach/pkg/logger"
)

type Container struct {
	UserService           *app.UserService
	AnalysisService       *app.AnalysisService
	ClassificationService *app.ClassificationService
	Engine                *rules.Engine
	Store                 port.VideoStore
}

// Deps — внешние компоненты конвейеров
type Deps struct {
	UserRepo   port.UserRepository
	Frames     port.FrameSource
	Poses      port.KeypointProvider
	Classifier port.ShotClassifier
	Store      port.VideoStore
	Catalog    *rules.Catalog
}

func New(cfg *config.Config, deps Deps, log *zap.Logger) *Container {
	engine := rules.NewEngine(deps.Catalog, logger.WithComponent(log, "rules"))

	return &Container{
		UserService: app.NewUserService(deps.UserRepo),
		AnalysisService: app.NewAnalysisService(deps.Frames, deps.Poses, engine,
			logger.WithComponent(log, "analysis"),
			app.AnalysisConfig{
				MinConfidence: cfg.KeypointMinConfidence,
				DefaultFPS:    cfg.DefaultFPS,
			}),
		ClassificationService: app.NewClassificationService(deps.Frames, deps.Classifier,
			logger.WithComponent(log, "classification"), cfg.ClassifierMinConfidence),
		Engine: engine,
		Store:  deps.Store,
	}
}

// NewFromConfig собирает контейнер с адаптерами OpenCV и каталогом из конфигурации.
// Модели загружаются при первом использовании.
func NewFromConfig(cfg *config.Config, log *zap.Logger) (*Container, error) {
	catalog := rules.DefaultCatalog()
	if cfg.RulesPath != "" {
		loaded, err := rules.LoadCatalogFile(cfg.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		catalog = loaded
	}

	visionLog := logger.WithComponent(log, "vision")
	return New(cfg, Deps{
		UserRepo:   storage.NewMemoryUserRepository(),
		Frames:     vision.NewVideoFrameSource(visionLog),
		Poses:      vision.NewMoveNetProvider(cfg.PoseModelPath, cfg.PoseInputSize, visionLog),
		Classifier: vision.NewNetClassifier(cfg.ClassifierModelPath, cfg.ClassifierLabelsPath, cfg.ClassifierInputSize, visionLog),
		Store:      storage.NewTempVideoStore(cfg.TempDir),
		Catalog:    catalog,
	}, log), nil
}
