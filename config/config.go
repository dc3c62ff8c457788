package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultMaxUploadBytes — предел размера загружаемого видео, 30 МБ.
const DefaultMaxUploadBytes = 30 * 1024 * 1024

type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN"`
	HTTPAddr      string `env:"HTTP_ADDR"      envDefault:":10000"`
	LogLevel      string `env:"LOG_LEVEL"      envDefault:"info"`

	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"31457280"`
	TempDir        string        `env:"TEMP_DIR"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"2m"`

	// Пустой путь — эталонный каталог правил.
	RulesPath  string `env:"RULES_PATH"`
	DefaultFPS int    `env:"DEFAULT_FPS" envDefault:"30"`

	// MoveNet single-pose в ONNX: вход [1,N,N,3] int32 RGB, выход [1,1,17,3] (y, x, score).
	PoseModelPath         string  `env:"POSE_MODEL_PATH"          envDefault:"models/movenet.onnx"`
	PoseInputSize         int     `env:"POSE_INPUT_SIZE"          envDefault:"192"`
	KeypointMinConfidence float64 `env:"KEYPOINT_MIN_CONFIDENCE" envDefault:"0"`

	// Классификатор в ONNX: вход [1,3,N,N] float32 RGB 0..1, выход — оценки по меткам.
	ClassifierModelPath     string  `env:"CLASSIFIER_MODEL_PATH"     envDefault:"models/shot_classifier.onnx"`
	ClassifierLabelsPath    string  `env:"CLASSIFIER_LABELS_PATH"    envDefault:"models/shot_classifier.labels"`
	ClassifierInputSize     int     `env:"CLASSIFIER_INPUT_SIZE"     envDefault:"224"`
	ClassifierMinConfidence float64 `env:"CLASSIFIER_MIN_CONFIDENCE" envDefault:"0"`
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения, которые нельзя исправить молча.
func (c *Config) Validate() error {
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.DefaultFPS <= 0 {
		return fmt.Errorf("DEFAULT_FPS must be positive, got %d", c.DefaultFPS)
	}
	if c.PoseInputSize <= 0 || c.ClassifierInputSize <= 0 {
		return fmt.Errorf("model input sizes must be positive")
	}
	if c.KeypointMinConfidence < 0 || c.KeypointMinConfidence > 1 {
		return fmt.Errorf("KEYPOINT_MIN_CONFIDENCE must be in [0,1], got %v", c.KeypointMinConfidence)
	}
	if c.ClassifierMinConfidence < 0 || c.ClassifierMinConfidence > 1 {
		return fmt.Errorf("CLASSIFIER_MIN_CONFIDENCE must be in [0,1], got %v", c.ClassifierMinConfidence)
	}
	return nil
}
