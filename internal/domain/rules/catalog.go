package rules

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"shot-coach/internal/domain/entity"
)

// Пороговые значения эталонного каталога. Они задают поведение продукта,
// менять их нельзя без новой версии каталога.
const (
	ServeWristHipOffset      = 0.0   // запястье выше бедра, если a.y - b.y < 0
	ServeArmMinAngle         = 150.0 // плечо-локоть-запястье, градусы
	ServeShoulderMaxTilt     = 0.08  // разница высоты плеч, доли кадра
	SmashElbowShoulderOffset = 0.0   // локоть ниже плеча, если a.y - b.y > 0
	SmashKneeMaxAngle        = 165.0 // бедро-колено-лодыжка, градусы
	SmashShoulderMinTilt     = 0.04  // разница высоты плеч, доли кадра
)

const (
	ShotServe = "serve"
	ShotSmash = "smash"

	DefaultCatalogVersion = "1"
)

// Catalog — наборы правил по типам ударов.
type Catalog struct {
	Version   string            `yaml:"version"`
	ShotRules map[string][]Rule `yaml:"shots"`
}

// DefaultCatalog возвращает эталонный каталог правил.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Version: DefaultCatalogVersion,
		ShotRules: map[string][]Rule{
			ShotServe: {
				{
					ID:        "serve_wrist_below_waist",
					Metric:    VerticalOffset,
					Landmarks: []entity.Landmark{entity.RightWrist, entity.RightHip},
					Op:        Less,
					Threshold: ServeWristHipOffset,
					Message:   "Racket hand must be below waist during serve",
				},
				{
					ID:        "serve_arm_extension",
					Metric:    JointAngle,
					Landmarks: []entity.Landmark{entity.RightShoulder, entity.RightElbow, entity.RightWrist},
					Op:        Less,
					Threshold: ServeArmMinAngle,
					Message:   "Serving arm should be straighter",
				},
				{
					ID:        "serve_shoulders_level",
					Metric:    VerticalSpread,
					Landmarks: []entity.Landmark{entity.LeftShoulder, entity.RightShoulder},
					Op:        Greater,
					Threshold: ServeShoulderMaxTilt,
					Message:   "Shoulders should be level during serve",
				},
			},
			ShotSmash: {
				{
					ID:        "smash_elbow_raised",
					Metric:    VerticalOffset,
					Landmarks: []entity.Landmark{entity.RightElbow, entity.RightShoulder},
					Op:        Greater,
					Threshold: SmashElbowShoulderOffset,
					Message:   "Raise elbow higher before smashing",
				},
				{
					ID:        "smash_knee_bend",
					Metric:    JointAngle,
					Landmarks: []entity.Landmark{entity.RightHip, entity.RightKnee, entity.RightAnkle},
					Op:        Greater,
					Threshold: SmashKneeMaxAngle,
					Message:   "Bend knees more to generate smash power",
				},
				{
					ID:        "smash_shoulder_rotation",
					Metric:    VerticalSpread,
					Landmarks: []entity.Landmark{entity.LeftShoulder, entity.RightShoulder},
					Op:        Less,
					Threshold: SmashShoulderMinTilt,
					Message:   "Rotate shoulders more for a powerful smash",
				},
			},
		},
	}
}

// Rules возвращает правила удара. Регистр не важен, неизвестный удар — пустой список.
func (c *Catalog) Rules(shot string) []Rule {
	if c == nil {
		return nil
	}
	return c.ShotRules[entity.NormalizeShotType(shot)]
}

// Shots возвращает известные типы ударов по алфавиту.
func (c *Catalog) Shots() []string {
	shots := make([]string, 0, len(c.ShotRules))
	for s := range c.ShotRules {
		shots = append(shots, s)
	}
	sort.Strings(shots)
	return shots
}

// Validate проверяет все правила и уникальность их id внутри удара.
func (c *Catalog) Validate() error {
	for shot, list := range c.ShotRules {
		if shot == "" {
			return fmt.Errorf("%w: empty shot type", ErrInvalidRule)
		}
		seen := make(map[string]struct{}, len(list))
		for _, r := range list {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("shot %s: %w", shot, err)
			}
			if _, dup := seen[r.ID]; dup {
				return fmt.Errorf("%w: shot %s: duplicate id %s", ErrInvalidRule, shot, r.ID)
			}
			seen[r.ID] = struct{}{}
		}
	}
	return nil
}

// LoadCatalog читает каталог из YAML и проверяет его.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var raw Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	// Ключи ударов приводим к нижнему регистру, как и запросы.
	c := &Catalog{Version: raw.Version, ShotRules: make(map[string][]Rule, len(raw.ShotRules))}
	for shot, list := range raw.ShotRules {
		key := entity.NormalizeShotType(shot)
		if _, dup := c.ShotRules[key]; dup {
			return nil, fmt.Errorf("%w: duplicate shot type %s", ErrInvalidRule, key)
		}
		c.ShotRules[key] = list
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCatalogFile читает каталог из файла.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// WriteYAML выгружает каталог в YAML.
func (c *Catalog) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}
