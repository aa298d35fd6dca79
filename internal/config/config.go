// Package config handles configuration discovery and loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/patchlib/internal/merge"
	"github.com/cameronsjo/patchlib/internal/patch"
)

// EnvConfig names the environment variable holding an explicit config path.
const EnvConfig = "PATCHLIB_CONFIG"

// FileNames are the config file names searched for, in order of preference.
var FileNames = []string{".patchlib.toml", ".patchlib.yaml", ".patchlib.yml"}

var (
	// ErrInvalidConfig indicates a config value that cannot be used.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnknownKind indicates a kind with no shape record.
	ErrUnknownKind = errors.New("no shape for kind")

	// ErrNotFound indicates no config file was found during discovery.
	ErrNotFound = errors.New("config file not found")
)

// ShapeConfig is the file form of a shape record.
type ShapeConfig struct {
	// PodSpecPath is the dotted path of the pod spec, e.g. spec.template.spec.
	PodSpecPath string `toml:"podSpecPath" yaml:"podSpecPath"`

	// Replicas reports whether the kind has spec.replicas.
	Replicas bool `toml:"replicas" yaml:"replicas"`
}

// Config holds the patchlib configuration.
type Config struct {
	// KeyField identifies elements of keyed lists.
	KeyField string `toml:"keyField" yaml:"keyField"`

	// LogLevel is a logrus level name.
	LogLevel string `toml:"logLevel" yaml:"logLevel"`

	// Shapes maps a workload kind to its shape record.
	Shapes map[string]ShapeConfig `toml:"shapes" yaml:"shapes"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// fileConfig distinguishes absent keys from zero values.
type fileConfig struct {
	KeyField *string               `toml:"keyField" yaml:"keyField"`
	LogLevel *string               `toml:"logLevel" yaml:"logLevel"`
	Shapes   map[string]ShapeConfig `toml:"shapes" yaml:"shapes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	shapes := make(map[string]ShapeConfig)
	for kind, s := range patch.DefaultShapes() {
		shapes[kind] = ShapeConfig{
			PodSpecPath: strings.Join(s.PodSpecPath, "."),
			Replicas:    s.Replicas,
		}
	}
	return &Config{
		KeyField: merge.DefaultKeyField,
		LogLevel: logrus.WarnLevel.String(),
		Shapes:   shapes,
	}
}

// Load reads the config file at path and overlays it on the defaults.
// The format follows the extension: .toml, or .yaml/.yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := Default()
	cfg.Path = path
	if fc.KeyField != nil {
		cfg.KeyField = *fc.KeyField
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	for kind, s := range fc.Shapes {
		cfg.Shapes[kind] = s
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the config named by $PATCHLIB_CONFIG, else flagPath, else
// the nearest config file found searching upward from the working
// directory. With none of these it returns the defaults.
func Discover(flagPath string) (*Config, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return Load(p)
	}
	if flagPath != "" {
		return Load(flagPath)
	}

	p, err := FindFile()
	if errors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(p)
}

// FindFile searches upward from the current directory for a config file.
func FindFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", ErrNotFound
}

// Validate checks every value of the config.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.KeyField) == "" {
		return fmt.Errorf("%w: keyField must not be empty", ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: logLevel: %v", ErrInvalidConfig, err)
	}
	for _, kind := range sortedKinds(c.Shapes) {
		if _, err := c.shape(kind); err != nil {
			return err
		}
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}

// Shape returns the shape record registered for kind.
func (c *Config) Shape(kind string) (patch.Shape, error) {
	if _, ok := c.Shapes[kind]; !ok {
		return patch.Shape{}, fmt.Errorf("%w %s", ErrUnknownKind, kind)
	}
	return c.shape(kind)
}

func (c *Config) shape(kind string) (patch.Shape, error) {
	sc := c.Shapes[kind]
	if sc.PodSpecPath == "" {
		return patch.Shape{}, fmt.Errorf("%w: shape %s: podSpecPath must not be empty", ErrInvalidConfig, kind)
	}
	path, err := merge.ParsePath(sc.PodSpecPath)
	if err != nil {
		return patch.Shape{}, fmt.Errorf("%w: shape %s: %v", ErrInvalidConfig, kind, err)
	}

	fields := make([]string, 0, len(path))
	for _, step := range path {
		if step.Keyed {
			return patch.Shape{}, fmt.Errorf("%w: shape %s: podSpecPath cannot select list elements", ErrInvalidConfig, kind)
		}
		fields = append(fields, step.Field)
	}
	return patch.Shape{Kind: kind, PodSpecPath: fields, Replicas: sc.Replicas}, nil
}

// Patcher builds a patcher for kind from its shape record and the key field.
func (c *Config) Patcher(kind string) (*patch.Patcher, error) {
	shape, err := c.Shape(kind)
	if err != nil {
		return nil, err
	}
	return patch.NewPatcher(shape, c.KeyField)
}

// Kinds returns the kinds with a shape record, sorted.
func (c *Config) Kinds() []string {
	return sortedKinds(c.Shapes)
}

func sortedKinds(shapes map[string]ShapeConfig) []string {
	kinds := make([]string, 0, len(shapes))
	for k := range shapes {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
