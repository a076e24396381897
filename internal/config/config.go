// Package config holds the run options of handlecheck and loads optional
// defaults from a config file.
//
// Options come from three layers, lowest priority first:
//  1. built-in defaults (Default)
//  2. a config file (--config), YAML or JSONC
//  3. explicit command-line flags
//
// The config file uses the same names as the flags, with underscores:
//
//	# handlecheck.yaml
//	delay_ms: 500
//	retries: 3
//	suggest: pretty
//	top: 40
//	range: [1000, 1099]
//	handles: ["1337", "4242"]
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/handlecheck/internal/candidate"
	"github.com/shinji-kodama/handlecheck/internal/checker"
)

// Defaults for every tunable option.
const (
	DefaultDelayMS  = 350
	DefaultJitterMS = 150
	DefaultTimeoutS = 15.0
	DefaultRetries  = checker.DefaultRetries
	DefaultTop      = 100
)

// Options is the fully resolved configuration of one run.
type Options struct {
	// Handles are explicit handles to check, in order.
	Handles []string

	// Range is either empty or [start, end] (inclusive, any order).
	Range []int

	// DelayMS is the fixed pause between two requests.
	DelayMS int

	// JitterMS is the upper bound of the uniform random addition to DelayMS.
	JitterMS int

	// TimeoutS is the per-request timeout in seconds.
	TimeoutS float64

	// Retries is how many times a 429 or transport failure is retried.
	Retries int

	// Suggest selects a candidate generator; empty disables suggestions.
	Suggest string

	// Top caps the number of generated candidates.
	Top int

	// Endpoint overrides the API URL.
	Endpoint string
}

// Default returns Options populated with the built-in defaults.
func Default() Options {
	return Options{
		DelayMS:  DefaultDelayMS,
		JitterMS: DefaultJitterMS,
		TimeoutS: DefaultTimeoutS,
		Retries:  DefaultRetries,
		Top:      DefaultTop,
		Endpoint: checker.DefaultEndpoint,
	}
}

// File is the on-disk representation. Pointer fields distinguish "absent"
// from an explicit zero.
type File struct {
	Handles  []string `yaml:"handles" json:"handles"`
	Range    []int    `yaml:"range" json:"range"`
	DelayMS  *int     `yaml:"delay_ms" json:"delay_ms"`
	JitterMS *int     `yaml:"jitter_ms" json:"jitter_ms"`
	TimeoutS *float64 `yaml:"timeout_s" json:"timeout_s"`
	Retries  *int     `yaml:"retries" json:"retries"`
	Suggest  *string  `yaml:"suggest" json:"suggest"`
	Top      *int     `yaml:"top" json:"top"`
	Endpoint string   `yaml:"endpoint" json:"endpoint"`
}

// LoadFile reads a config file. The decoder is chosen by extension:
// .yaml/.yml use yaml.v3, .json/.jsonc are stripped of comments with
// tidwall/jsonc and decoded with encoding/json.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config %q: %w", path, err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config %q: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (use .yaml, .yml, .json or .jsonc)", ext)
	}
	return &f, nil
}

// FlagChanged reports whether the named flag was set explicitly on the
// command line. cobra's (*pflag.FlagSet).Changed has this signature.
type FlagChanged func(name string) bool

// Apply overlays file values onto o for every option whose flag was not
// set explicitly. File handles are appended after positional handles.
func (o *Options) Apply(f *File, changed FlagChanged) {
	if f == nil {
		return
	}
	if changed == nil {
		changed = func(string) bool { return false }
	}

	o.Handles = append(o.Handles, f.Handles...)
	if len(f.Range) > 0 && !changed("range") {
		o.Range = append([]int(nil), f.Range...)
	}
	if f.DelayMS != nil && !changed("delay-ms") {
		o.DelayMS = *f.DelayMS
	}
	if f.JitterMS != nil && !changed("jitter-ms") {
		o.JitterMS = *f.JitterMS
	}
	if f.TimeoutS != nil && !changed("timeout-s") {
		o.TimeoutS = *f.TimeoutS
	}
	if f.Retries != nil && !changed("retries") {
		o.Retries = *f.Retries
	}
	if f.Suggest != nil && !changed("suggest") {
		o.Suggest = *f.Suggest
	}
	if f.Top != nil && !changed("top") {
		o.Top = *f.Top
	}
	if f.Endpoint != "" && !changed("endpoint") {
		o.Endpoint = f.Endpoint
	}
}

// Normalize clamps counters that must not be negative (retries, jitter,
// top) and validates the rest. A negative delay is allowed; the pacer
// floors the total pause at zero.
func (o *Options) Normalize() error {
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.JitterMS < 0 {
		o.JitterMS = 0
	}
	if o.Top < 0 {
		o.Top = 0
	}
	if o.TimeoutS <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", o.TimeoutS)
	}
	if len(o.Range) != 0 && len(o.Range) != 2 {
		return fmt.Errorf("range needs exactly two values START END, got %d", len(o.Range))
	}
	src, err := candidate.ParseSource(o.Suggest)
	if err != nil {
		return err
	}
	o.Suggest = src.String()
	if o.Endpoint == "" {
		o.Endpoint = checker.DefaultEndpoint
	}
	return nil
}

// HasRange reports whether a range was requested.
func (o Options) HasRange() bool {
	return len(o.Range) == 2
}

// Timeout returns TimeoutS as a Duration.
func (o Options) Timeout() time.Duration {
	return time.Duration(o.TimeoutS * float64(time.Second))
}
