package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/corepassmd/internal/coreid"
)

// OptionsFile is the YAML shape of a rewrite options file:
//
//	ican_check: true
//	skip_override: false
//	negation: glyph
//
// Keys left out keep the value they are layered over.
type OptionsFile struct {
	IcanCheck    *bool   `yaml:"ican_check"`
	SkipOverride *bool   `yaml:"skip_override"`
	Negation     *string `yaml:"negation"`
}

// LoadOptionsFile reads path and applies it on top of base.
func LoadOptionsFile(path string, base coreid.Options) (coreid.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read options file: %w", err)
	}
	opts, err := ParseOptions(data, base)
	if err != nil {
		return base, fmt.Errorf("options file %s: %w", path, err)
	}
	return opts, nil
}

// ParseOptions decodes YAML options and applies them on top of base.
// Unknown keys are rejected. An empty document returns base unchanged.
func ParseOptions(data []byte, base coreid.Options) (coreid.Options, error) {
	var f OptionsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("decode: %w", err)
	}
	return f.Apply(base)
}

// Apply overlays the keys present in f onto base.
func (f OptionsFile) Apply(base coreid.Options) (coreid.Options, error) {
	opts := base
	if f.IcanCheck != nil {
		opts.EnableValidityCheck = *f.IcanCheck
	}
	if f.SkipOverride != nil {
		opts.EnableSkipOverride = *f.SkipOverride
	}
	if f.Negation != nil {
		style, err := coreid.ParseNegationStyle(*f.Negation)
		if err != nil {
			return base, err
		}
		opts.Negation = style
	}
	return opts, nil
}
