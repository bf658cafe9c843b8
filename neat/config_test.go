package neat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testINI = `
[Genome]
num_inputs    = 3
num_outputs   = 2
hidden_layers = 4 3
activation    = relu ; inline comment

[Mutation]
conn_add_prob      = 0.5
weight_reset_range = 3.0

[Compatibility]
threshold = 2.5

[Evolution]
pop_size             = 40
reset_on_extinction  = true
species_fitness_func = mean
`

func TestParseINIConfig(t *testing.T) {
	cfg, err := ParseINIConfig([]byte(testINI))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Genome.NumInputs)
	assert.Equal(t, 2, cfg.Genome.NumOutputs)
	assert.Equal(t, []int{4, 3}, cfg.Genome.HiddenLayers)
	assert.Equal(t, []int{3, 4, 3, 2}, cfg.Genome.LayerSizes())
	act, err := cfg.Genome.ActivationFunc()
	require.NoError(t, err)
	assert.Equal(t, ReLU, act)

	assert.Equal(t, 0.5, cfg.Mutation.ConnAddProb)
	assert.Equal(t, 3.0, cfg.Mutation.WeightResetRange)
	assert.Equal(t, DefaultConfig().Mutation.NodeAddProb, cfg.Mutation.NodeAddProb, "missing keys keep defaults")
	assert.Equal(t, 2.5, cfg.Compatibility.Threshold)
	assert.Equal(t, 40, cfg.Evolution.PopSize)
	assert.True(t, cfg.Evolution.ResetOnExtinction)
	assert.Equal(t, "mean", cfg.Evolution.SpeciesFitnessFunc)
}

func TestParseYAMLConfig(t *testing.T) {
	cfg, err := ParseYAMLConfig([]byte(`
genome:
  num_inputs: 4
  hidden_layers: [5]
  activation: clamped
compatibility:
  weight_coefficient: 0.8
evolution:
  pop_size: 10
`))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Genome.NumInputs)
	assert.Equal(t, 1, cfg.Genome.NumOutputs)
	assert.Equal(t, []int{5}, cfg.Genome.HiddenLayers)
	assert.Equal(t, "clamped", cfg.Genome.Activation)
	assert.Equal(t, 0.8, cfg.Compatibility.WeightCoefficient)
	assert.Equal(t, 10, cfg.Evolution.PopSize)
}

func TestLoadConfigDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	iniPath := filepath.Join(dir, "xor-config")
	yamlPath := filepath.Join(dir, "xor.yml")
	require.NoError(t, os.WriteFile(iniPath, []byte(testINI), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte("genome:\n  num_inputs: 7\n"), 0o644))

	cfg, err := LoadConfig(iniPath)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Genome.NumInputs)

	cfg, err = LoadConfig(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Genome.NumInputs)

	_, err = LoadConfig(filepath.Join(dir, "missing.ini"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"inputs", func(c *Config) { c.Genome.NumInputs = 0 }, "num_inputs"},
		{"outputs", func(c *Config) { c.Genome.NumOutputs = -1 }, "num_outputs"},
		{"hidden", func(c *Config) { c.Genome.HiddenLayers = []int{2, 0} }, "hidden_layers"},
		{"activation", func(c *Config) { c.Genome.Activation = "tanh" }, "unknown activation"},
		{"probability", func(c *Config) { c.Mutation.NodeAddProb = 1.5 }, "node_add_prob"},
		{"reset range", func(c *Config) { c.Mutation.WeightResetRange = 0.1 }, "weight_reset_range"},
		{"coefficient", func(c *Config) { c.Compatibility.WeightCoefficient = -1 }, "weight_coefficient"},
		{"pop size", func(c *Config) { c.Evolution.PopSize = 0 }, "pop_size"},
		{"survival", func(c *Config) { c.Evolution.SurvivalThreshold = 0 }, "survival_threshold"},
		{"species fitness", func(c *Config) { c.Evolution.SpeciesFitnessFunc = "mode" }, "species_fitness_func"},
	}
	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := ParseINIConfig([]byte("[Evolution]\npop_size = 0\n"))
	assert.ErrorContains(t, err, "pop_size")
}
