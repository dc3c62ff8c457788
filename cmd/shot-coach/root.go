package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shot-coach/config"
	"shot-coach/internal/container"
	"shot-coach/pkg/logger"
)

type options struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "shot-coach",
		Short: "Разбор техники ударов в бадминтоне по видео",
		Long: `shot-coach определяет тип удара и проверяет технику по ключевым точкам позы.

Примеры:
  # HTTP API и Telegram-бот
  shot-coach serve

  # Замечания по подаче
  shot-coach analyze serve.mp4 --shot serve

  # Тип удара
  shot-coach classify clip.mp4

  # Действующий каталог правил
  shot-coach rules
`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "уровень логирования (по умолчанию LOG_LEVEL)")

	root.AddCommand(
		newServeCmd(opts),
		newAnalyzeCmd(opts),
		newClassifyCmd(opts),
		newRulesCmd(opts),
	)
	return root
}

// bootstrap загружает конфигурацию и собирает зависимости для команды.
func bootstrap(opts *options) (*config.Config, *zap.Logger, *container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	c, err := container.NewFromConfig(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, err
	}
	return cfg, log, c, nil
}
