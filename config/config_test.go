// SPDX-License-Identifier: MIT

package config_test

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/actionet/config"
	"github.com/katalvlaran/actionet/multires"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2, cfg.KMin)
	assert.Equal(t, 30, cfg.KMax)
	assert.Equal(t, -3.0, cfg.SpecificityThreshold)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)
}

func TestParse_PartialOverridesDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(`
k_max: 8
specificity_th: -.inf
unification_th: 0.25
return_w: true
log_level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.KMin)
	assert.Equal(t, 8, cfg.KMax)
	assert.True(t, math.IsInf(cfg.SpecificityThreshold, -1))
	assert.Equal(t, 0.25, cfg.UnificationThreshold)
	assert.True(t, cfg.ReturnW)
	assert.Equal(t, 100, cfg.MaxIter)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "k_maximum: 3"},
		{"not yaml", "k_min: [1"},
		{"k_min below two", "k_min: 1"},
		{"reversed range", "k_min: 5\nk_max: 4"},
		{"max_iter zero", "max_iter: 0"},
		{"negative min_delta", "min_delta: -1"},
		{"specificity NaN", "specificity_th: .nan"},
		{"min cells zero", "min_cells_per_archetype: 0"},
		{"unification above one", "unification_th: 2"},
		{"negative threads", "thread_no: -2"},
		{"bad level", "log_level: loud"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.doc))
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvThreads, "3")
	t.Setenv(config.EnvLogLevel, "warn")

	cfg, err := config.Parse([]byte("thread_no: 1\nlog_level: debug"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Threads)
	assert.Equal(t, "warn", cfg.LogLevel)

	t.Setenv(config.EnvThreads, "many")
	_, err = config.Parse(nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	path := filepath.Join(dir, "nested", "run.yaml")
	want := config.Default()
	want.KMax = 6
	want.MinDelta = 1e-6
	want.SpecificityThreshold = math.Inf(-1)
	require.NoError(t, want.Save(path))

	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, os.WriteFile(path, []byte("k_min: 0"), 0o644))
	_, err = config.Load(path)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestOptionsDriveRun(t *testing.T) {
	cfg, err := config.Parse([]byte("k_min: 2\nk_max: 3\nmax_iter: 5\nmin_cells_per_archetype: 1\nthread_no: 2\nreturn_w: true"))
	require.NoError(t, err)

	S := mat.NewDense(2, 6, []float64{
		5, 4.8, 5.1, 0.1, 0, 0.2,
		0, 0.2, 0.1, 5, 4.9, 5.2,
	})
	res, err := multires.Run(context.Background(), S, cfg.Options()...)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Stacked.Len())
	assert.NotNil(t, res.WUnified)
}
