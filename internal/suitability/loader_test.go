package suitability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStrategy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadThresholds_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadThresholds("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadThresholds_OverridesMergeOverDefaults(t *testing.T) {
	path := writeStrategy(t, `
value:
  max_pb: 3
momentum:
  max_rsi: 65
`)

	cfg, err := LoadThresholds(path)
	require.NoError(t, err)

	assert.Equal(t, 3.0, cfg.Value.MaxPB)
	assert.Equal(t, 65.0, cfg.Momentum.MaxRSI)

	// Untouched fields keep their defaults.
	assert.Equal(t, Defaults().Value.MaxTrailingPE, cfg.Value.MaxTrailingPE)
	assert.Equal(t, Defaults().Dividend.MinDividendYield, cfg.Dividend.MinDividendYield)
}

func TestLoadThresholds_UnknownFieldFails(t *testing.T) {
	path := writeStrategy(t, `
value:
  max_pbb: 3
`)

	_, err := LoadThresholds(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode strategy file")
}

func TestLoadThresholds_ValidationRejectsImpossibleGates(t *testing.T) {
	path := writeStrategy(t, `
momentum:
  min_momentum_checks: 9
`)

	_, err := LoadThresholds(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_momentum_checks")
}

func TestLoadThresholds_MissingFile(t *testing.T) {
	_, err := LoadThresholds(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestHash(t *testing.T) {
	a, err := Hash(Defaults())
	require.NoError(t, err)
	b, err := Hash(Defaults())
	require.NoError(t, err)
	assert.Equal(t, a, b, "hash must be stable for identical thresholds")
	assert.Len(t, a, 64)

	changed := Defaults()
	changed.Value.MaxPB = 4
	c, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestThresholds_Validate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	cfg.Dividend.MaxPayoutRatio = 0
	assert.Error(t, cfg.Validate())
}
