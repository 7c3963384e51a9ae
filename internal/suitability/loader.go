package suitability

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadThresholds reads a strategy YAML file. KnownFields(true) makes typos
// and unused fields fail loudly instead of silently falling back to zero
// values. An empty path returns the compiled-in defaults.
func LoadThresholds(path string) (*Thresholds, error) {
	if path == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy file: %w", err)
	}

	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode strategy file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("strategy validation failed: %w", err)
	}

	return cfg, nil
}

// Hash returns a SHA256 over the canonical JSON form of the thresholds, used
// to record which rule configuration produced a given evaluation.
func Hash(cfg *Thresholds) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal thresholds: %w", err)
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
