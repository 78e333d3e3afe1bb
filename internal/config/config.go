// Package config loads and validates run configurations.
//
// A configuration is built from DefaultConfig, optionally overlaid with a YAML
// file (Load) and then with key=value overrides (FromMap). Validate reports
// every problem wrapped in core.ErrInvalidConfiguration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"gridstep/internal/core"
)

// MaxFileSize bounds the size of a configuration file.
const MaxFileSize = 1 << 20

// DefaultLength is the grid length of the reference benchmark.
const DefaultLength = 1_000_000

// StageConfig describes one engine in the chain.
type StageConfig struct {
	Engine     string   `yaml:"engine" validate:"required,oneof=chunked pooled"`
	Threads    int      `yaml:"threads" validate:"gte=1"`
	Transforms []string `yaml:"transforms" validate:"required,min=1,dive,oneof=average shift"`
}

// BenchConfig controls the thread-count sweep.
type BenchConfig struct {
	Steps int `yaml:"steps" validate:"gte=1"`
	// MaxThreads of zero means runtime.NumCPU().
	MaxThreads int `yaml:"max_threads" validate:"gte=0"`
}

// Config is a complete run configuration.
type Config struct {
	Length       int           `yaml:"length" validate:"gte=1"`
	Seed         int64         `yaml:"seed"`
	ReuseBuffers bool          `yaml:"reuse_buffers"`
	Stages       []StageConfig `yaml:"stages" validate:"required,min=1,dive"`
	Bench        BenchConfig   `yaml:"bench"`
}

var validate = validator.New()

// DefaultConfig returns a single chunked stage running average and shift on
// one thread over a million cells.
func DefaultConfig() Config {
	return Config{
		Length: DefaultLength,
		Seed:   1337,
		Stages: []StageConfig{{
			Engine:     "chunked",
			Threads:    1,
			Transforms: []string{"average", "shift"},
		}},
		Bench: BenchConfig{Steps: 100},
	}
}

// Load reads a YAML file over DefaultConfig. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	info, err := os.Stat(path)
	if err != nil {
		return cfg, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > MaxFileSize {
		return cfg, fmt.Errorf("%w: config file %s is %d bytes, limit %d", core.ErrInvalidConfiguration, path, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over DefaultConfig.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: decode config: %v", core.ErrInvalidConfiguration, err)
	}
	return cfg, nil
}

// FromMap applies flag-style key=value overrides to c. threads and engine
// apply to every stage.
func FromMap(c Config, kv map[string]string) (Config, error) {
	c.Stages = cloneStages(c.Stages)
	var errs []error
	bad := func(key, v string) {
		errs = append(errs, fmt.Errorf("%w: %s=%q", core.ErrInvalidConfiguration, key, v))
	}
	for key, v := range kv {
		switch key {
		case "length":
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				c.Length = parsed
			} else {
				bad(key, v)
			}
		case "seed":
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
				c.Seed = parsed
			} else {
				bad(key, v)
			}
		case "reuse_buffers":
			if parsed, err := strconv.ParseBool(v); err == nil {
				c.ReuseBuffers = parsed
			} else {
				bad(key, v)
			}
		case "threads":
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				for i := range c.Stages {
					c.Stages[i].Threads = parsed
				}
			} else {
				bad(key, v)
			}
		case "engine":
			for i := range c.Stages {
				c.Stages[i].Engine = v
			}
		case "transforms":
			names := strings.Split(v, ",")
			for i := range c.Stages {
				c.Stages[i].Transforms = append([]string(nil), names...)
			}
		case "steps":
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				c.Bench.Steps = parsed
			} else {
				bad(key, v)
			}
		case "max_threads":
			if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
				c.Bench.MaxThreads = parsed
			} else {
				bad(key, v)
			}
		default:
			errs = append(errs, fmt.Errorf("%w: unknown key %q", core.ErrInvalidConfiguration, key))
		}
	}
	return c, errors.Join(errs...)
}

// ParseOverrides splits "key=value" strings into a map.
func ParseOverrides(pairs []string) (map[string]string, error) {
	kv := make(map[string]string, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: override %q is not key=value", core.ErrInvalidConfiguration, p)
		}
		kv[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return kv, nil
}

// Validate checks every field and returns a single error listing all
// violations.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", core.ErrInvalidConfiguration, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", core.ErrInvalidConfiguration, strings.Join(msgs, "; "))
}

// Parameters describes c for display.
func (c Config) Parameters() core.ParameterSnapshot {
	groups := []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				{Key: "length", Label: "Length", Type: core.ParamTypeInt, Value: strconv.Itoa(c.Length)},
				{Key: "seed", Label: "Seed", Type: core.ParamTypeInt, Value: strconv.FormatInt(c.Seed, 10)},
				{Key: "reuse_buffers", Label: "Reuse buffers", Type: core.ParamTypeBool, Value: strconv.FormatBool(c.ReuseBuffers)},
			},
		},
	}
	for i, s := range c.Stages {
		groups = append(groups, core.ParameterGroup{
			Name: fmt.Sprintf("Stage %d", i),
			Params: []core.Parameter{
				{Key: fmt.Sprintf("engine.%d", i), Label: "Engine", Type: core.ParamTypeString, Value: s.Engine},
				{Key: fmt.Sprintf("threads.%d", i), Label: "Threads", Type: core.ParamTypeInt, Value: strconv.Itoa(s.Threads)},
				{Key: fmt.Sprintf("transforms.%d", i), Label: "Transforms", Type: core.ParamTypeString, Value: strings.Join(s.Transforms, ",")},
			},
		})
	}
	groups = append(groups, core.ParameterGroup{
		Name: "Bench",
		Params: []core.Parameter{
			{Key: "steps", Label: "Steps per thread count", Type: core.ParamTypeInt, Value: strconv.Itoa(c.Bench.Steps)},
			{Key: "max_threads", Label: "Max threads", Type: core.ParamTypeInt, Value: strconv.Itoa(c.Bench.MaxThreads)},
		},
	})
	return core.ParameterSnapshot{Groups: groups}
}

func cloneStages(in []StageConfig) []StageConfig {
	out := make([]StageConfig, len(in))
	for i, s := range in {
		s.Transforms = append([]string(nil), s.Transforms...)
		out[i] = s
	}
	return out
}
