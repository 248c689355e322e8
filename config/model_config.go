// Package config implements the codec configuration record of spec.md §6.1:
// a layer-banded bin schedule, typically looked up by model name.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kvcache-codec/kvcodec/format"
	"github.com/kvcache-codec/kvcodec/kverrs"
)

// ModelConfig is the layer-banded bin schedule for one model, matching the
// recognized keys of spec.md §6.1.
type ModelConfig struct {
	KeyFirstLayers   int `yaml:"key_first_layers"`
	KeyFirstBins     int `yaml:"key_first_bins"`
	KeySecondLayers  int `yaml:"key_second_layers"`
	KeySecondBins    int `yaml:"key_second_bins"`
	KeyThirdBins     int `yaml:"key_third_bins"`
	ValueFirstLayers int `yaml:"value_first_layers"`
	ValueFirstBins   int `yaml:"value_first_bins"`
	ValueSecondBins  int `yaml:"value_second_bins"`
}

// Validate checks the band boundaries are monotone and every bin count is a
// positive integer not exceeding the fixed CDF alphabet.
func (c ModelConfig) Validate() error {
	bins := []int{c.KeyFirstBins, c.KeySecondBins, c.KeyThirdBins, c.ValueFirstBins, c.ValueSecondBins}
	for _, b := range bins {
		if b <= 0 {
			return kverrs.Wrap(kverrs.ErrConfigInvalid, "bin count %d must be positive", b)
		}
		if b > format.MaxBins {
			return kverrs.Wrap(kverrs.ErrConfigInvalid,
				"bin count %d exceeds alphabet cap %d", b, format.MaxBins)
		}
	}

	if c.KeyFirstLayers < 0 || c.KeySecondLayers < 0 || c.ValueFirstLayers < 0 {
		return kverrs.Wrap(kverrs.ErrConfigInvalid, "layer-band boundaries must be non-negative")
	}
	if c.KeyFirstLayers > c.KeySecondLayers {
		return kverrs.Wrap(kverrs.ErrConfigInvalid,
			"key_first_layers (%d) must be <= key_second_layers (%d)", c.KeyFirstLayers, c.KeySecondLayers)
	}

	return nil
}

// BinsForLayer returns the bin count for the given (isKey, layer) pair per
// the layer-banded schedule of spec.md §4.1 step 1.
func (c ModelConfig) BinsForLayer(isKey bool, layer int) (int, error) {
	if layer < 0 {
		return 0, kverrs.Wrap(kverrs.ErrShapeMismatch, "layer index %d must be non-negative", layer)
	}

	if isKey {
		switch {
		case layer < c.KeyFirstLayers:
			return c.KeyFirstBins, nil
		case layer < c.KeySecondLayers:
			return c.KeySecondBins, nil
		default:
			return c.KeyThirdBins, nil
		}
	}

	if layer < c.ValueFirstLayers {
		return c.ValueFirstBins, nil
	}

	return c.ValueSecondBins, nil
}

// Registry maps a model name to its ModelConfig, mirroring the original
// source's CacheGenConfig.from_model_name lookup.
type Registry struct {
	configs map[string]ModelConfig
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[string]ModelConfig)}
}

// Register adds or replaces the configuration for modelName.
func (r *Registry) Register(modelName string, cfg ModelConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.configs[modelName] = cfg

	return nil
}

// Lookup returns the configuration registered for modelName.
func (r *Registry) Lookup(modelName string) (ModelConfig, error) {
	cfg, ok := r.configs[modelName]
	if !ok {
		return ModelConfig{}, kverrs.Wrap(kverrs.ErrConfigInvalid, "no codec configuration registered for model %q", modelName)
	}

	return cfg, nil
}

// Default is a placeholder fallback band schedule (see DESIGN.md Open
// Question): Keys get three bands at 32/24/16 bins over the first 10/next
// 2/remaining layers, Values get two bands at 32/16 bins over the first
// 2/remaining layers.
func Default() ModelConfig {
	return ModelConfig{
		KeyFirstLayers:   10,
		KeyFirstBins:     32,
		KeySecondLayers:  12,
		KeySecondBins:    24,
		KeyThirdBins:     16,
		ValueFirstLayers: 2,
		ValueFirstBins:   32,
		ValueSecondBins:  16,
	}
}

// LoadYAML parses a YAML document mapping model name -> ModelConfig, such
// as:
//
//	llama-3-8b:
//	  key_first_layers: 10
//	  key_first_bins: 32
//	  ...
func LoadYAML(data []byte) (*Registry, error) {
	var raw map[string]ModelConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, kverrs.Wrap(kverrs.ErrConfigInvalid, "parsing model config YAML: %v", err)
	}

	r := NewRegistry()
	for name, cfg := range raw {
		if err := r.Register(name, cfg); err != nil {
			return nil, kverrs.Wrap(kverrs.ErrConfigInvalid, "model %q: %v", name, err)
		}
	}

	return r, nil
}

// LoadYAMLFile reads and parses a YAML config file from path.
func LoadYAMLFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kverrs.Wrap(kverrs.ErrConfigInvalid, "reading %s: %v", path, err)
	}

	return LoadYAML(data)
}
