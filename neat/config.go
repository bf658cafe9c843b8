package neat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Config stores the configuration parameters for genome construction,
// mutation, compatibility scoring and the population loop.
type Config struct {
	Genome        GenomeConfig        `yaml:"genome"`
	Mutation      MutationConfig      `yaml:"mutation"`
	Compatibility CompatibilityConfig `yaml:"compatibility"`
	Evolution     EvolutionConfig     `yaml:"evolution"`
}

// GenomeConfig describes the seed genome.
type GenomeConfig struct {
	NumInputs    int    `ini:"num_inputs" yaml:"num_inputs"`
	NumOutputs   int    `ini:"num_outputs" yaml:"num_outputs"`
	HiddenLayers []int  `ini:"hidden_layers" delim:" " yaml:"hidden_layers"` // Space-separated list
	Activation   string `ini:"activation" yaml:"activation"`
}

// MutationConfig holds the per-operator probabilities rolled by Mutator.Mutate
// and the weight ranges the operators draw from.
type MutationConfig struct {
	ConnAddProb        float64 `ini:"conn_add_prob" yaml:"conn_add_prob"`
	ConnDeleteProb     float64 `ini:"conn_delete_prob" yaml:"conn_delete_prob"`
	NodeAddProb        float64 `ini:"node_add_prob" yaml:"node_add_prob"`
	NodeDeleteProb     float64 `ini:"node_delete_prob" yaml:"node_delete_prob"`
	WeightPerturbProb  float64 `ini:"weight_perturb_prob" yaml:"weight_perturb_prob"`
	WeightResetProb    float64 `ini:"weight_reset_prob" yaml:"weight_reset_prob"`
	WeightPerturbPower float64 `ini:"weight_perturb_power" yaml:"weight_perturb_power"` // max |delta|
	WeightResetRange   float64 `ini:"weight_reset_range" yaml:"weight_reset_range"`     // half-width
	WeightInitRange    float64 `ini:"weight_init_range" yaml:"weight_init_range"`       // half-width for new connections
}

// CompatibilityConfig holds the distance coefficients and the threshold an
// external speciation policy compares distances against.
type CompatibilityConfig struct {
	ExcessCoefficient   float64 `ini:"excess_coefficient" yaml:"excess_coefficient"`
	DisjointCoefficient float64 `ini:"disjoint_coefficient" yaml:"disjoint_coefficient"`
	WeightCoefficient   float64 `ini:"weight_coefficient" yaml:"weight_coefficient"`
	Threshold           float64 `ini:"threshold" yaml:"threshold"`
}

// EvolutionConfig drives the population loop: sizes, termination,
// stagnation and reproduction.
type EvolutionConfig struct {
	PopSize              int     `ini:"pop_size" yaml:"pop_size"`
	FitnessThreshold     float64 `ini:"fitness_threshold" yaml:"fitness_threshold"`
	NoFitnessTermination bool    `ini:"no_fitness_termination" yaml:"no_fitness_termination"`
	ResetOnExtinction    bool    `ini:"reset_on_extinction" yaml:"reset_on_extinction"`
	MaxGenerations       int     `ini:"max_generations" yaml:"max_generations"`
	Elitism              int     `ini:"elitism" yaml:"elitism"`
	SurvivalThreshold    float64 `ini:"survival_threshold" yaml:"survival_threshold"`
	MinSpeciesSize       int     `ini:"min_species_size" yaml:"min_species_size"`
	MaxStagnation        int     `ini:"max_stagnation" yaml:"max_stagnation"`
	SpeciesElitism       int     `ini:"species_elitism" yaml:"species_elitism"`
	SpeciesFitnessFunc   string  `ini:"species_fitness_func" yaml:"species_fitness_func"` // mean, max, min, median, sum
	Workers              int     `ini:"workers" yaml:"workers"`                           // 0 means GOMAXPROCS
}

// DefaultConfig returns a usable configuration for a 2-input, 1-output problem.
func DefaultConfig() *Config {
	return &Config{
		Genome: GenomeConfig{
			NumInputs:  2,
			NumOutputs: 1,
			Activation: Sigmoid.String(),
		},
		Mutation: MutationConfig{
			ConnAddProb:        0.3,
			ConnDeleteProb:     0.05,
			NodeAddProb:        0.1,
			NodeDeleteProb:     0.03,
			WeightPerturbProb:  0.8,
			WeightResetProb:    0.1,
			WeightPerturbPower: 0.5,
			WeightResetRange:   2.0,
			WeightInitRange:    1.0,
		},
		Compatibility: CompatibilityConfig{
			ExcessCoefficient:   1.0,
			DisjointCoefficient: 1.0,
			WeightCoefficient:   0.4,
			Threshold:           3.0,
		},
		Evolution: EvolutionConfig{
			PopSize:            150,
			FitnessThreshold:   3.9,
			MaxGenerations:     300,
			Elitism:            2,
			SurvivalThreshold:  0.2,
			MinSpeciesSize:     2,
			MaxStagnation:      20,
			SpeciesElitism:     2,
			SpeciesFitnessFunc: "max",
		},
	}
}

// LoadConfig loads configuration parameters from an INI file, or from YAML when
// the file extension is .yaml or .yml. Keys missing from the file keep their
// DefaultConfig values.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return ParseYAMLConfig(data)
	default:
		return ParseINIConfig(data)
	}
}

// ParseINIConfig reads the [Genome], [Mutation], [Compatibility] and
// [Evolution] sections.
func ParseINIConfig(data []byte) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ini config: %w", err)
	}

	config := DefaultConfig()
	if err := cfg.Section("Genome").MapTo(&config.Genome); err != nil {
		return nil, fmt.Errorf("failed to map [Genome] section: %w", err)
	}
	if err := cfg.Section("Mutation").MapTo(&config.Mutation); err != nil {
		return nil, fmt.Errorf("failed to map [Mutation] section: %w", err)
	}
	if err := cfg.Section("Compatibility").MapTo(&config.Compatibility); err != nil {
		return nil, fmt.Errorf("failed to map [Compatibility] section: %w", err)
	}
	if err := cfg.Section("Evolution").MapTo(&config.Evolution); err != nil {
		return nil, fmt.Errorf("failed to map [Evolution] section: %w", err)
	}
	config.Genome.Activation = cleanIniString(config.Genome.Activation)
	config.Evolution.SpeciesFitnessFunc = cleanIniString(config.Evolution.SpeciesFitnessFunc)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ParseYAMLConfig reads the same layout as ParseINIConfig from YAML.
func ParseYAMLConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse yaml config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks value ranges and returns the first violation found.
func (c *Config) Validate() error {
	if c.Genome.NumInputs <= 0 {
		return fmt.Errorf("config error: num_inputs must be positive")
	}
	if c.Genome.NumOutputs <= 0 {
		return fmt.Errorf("config error: num_outputs must be positive")
	}
	for _, size := range c.Genome.HiddenLayers {
		if size <= 0 {
			return fmt.Errorf("config error: hidden_layers entries must be positive, got %d", size)
		}
	}
	if _, err := ParseActivation(c.Genome.Activation); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	probs := []struct {
		name string
		v    float64
	}{
		{"conn_add_prob", c.Mutation.ConnAddProb},
		{"conn_delete_prob", c.Mutation.ConnDeleteProb},
		{"node_add_prob", c.Mutation.NodeAddProb},
		{"node_delete_prob", c.Mutation.NodeDeleteProb},
		{"weight_perturb_prob", c.Mutation.WeightPerturbProb},
		{"weight_reset_prob", c.Mutation.WeightResetProb},
	}
	for _, p := range probs {
		if p.v < 0 || p.v > 1 {
			return fmt.Errorf("config error: %s must be between 0 and 1", p.name)
		}
	}
	if c.Mutation.WeightPerturbPower < 0 {
		return fmt.Errorf("config error: weight_perturb_power cannot be negative")
	}
	if c.Mutation.WeightInitRange < 0 {
		return fmt.Errorf("config error: weight_init_range cannot be negative")
	}
	if c.Mutation.WeightResetRange < c.Mutation.WeightPerturbPower {
		return fmt.Errorf("config error: weight_reset_range cannot be less than weight_perturb_power")
	}

	if c.Compatibility.ExcessCoefficient < 0 {
		return fmt.Errorf("config error: excess_coefficient cannot be negative")
	}
	if c.Compatibility.DisjointCoefficient < 0 {
		return fmt.Errorf("config error: disjoint_coefficient cannot be negative")
	}
	if c.Compatibility.WeightCoefficient < 0 {
		return fmt.Errorf("config error: weight_coefficient cannot be negative")
	}
	if c.Compatibility.Threshold < 0 {
		return fmt.Errorf("config error: threshold cannot be negative")
	}

	e := c.Evolution
	if e.PopSize <= 0 {
		return fmt.Errorf("config error: pop_size must be positive")
	}
	if e.Elitism < 0 || e.SpeciesElitism < 0 || e.MaxStagnation < 0 || e.MaxGenerations < 0 || e.Workers < 0 {
		return fmt.Errorf("config error: elitism, species_elitism, max_stagnation, max_generations and workers cannot be negative")
	}
	if e.MinSpeciesSize < 1 {
		return fmt.Errorf("config error: min_species_size must be at least 1")
	}
	if e.SurvivalThreshold <= 0 || e.SurvivalThreshold > 1 {
		return fmt.Errorf("config error: survival_threshold must be in (0, 1]")
	}
	if _, ok := StatFunctions[e.SpeciesFitnessFunc]; !ok {
		return fmt.Errorf("config error: unknown species_fitness_func %q", e.SpeciesFitnessFunc)
	}
	return nil
}

// LayerSizes returns the base genome layer sizes: inputs, hidden layers, outputs.
func (gc *GenomeConfig) LayerSizes() []int {
	sizes := make([]int, 0, len(gc.HiddenLayers)+2)
	sizes = append(sizes, gc.NumInputs)
	sizes = append(sizes, gc.HiddenLayers...)
	return append(sizes, gc.NumOutputs)
}

// ActivationFunc resolves the configured activation name.
func (gc *GenomeConfig) ActivationFunc() (Activation, error) {
	return ParseActivation(gc.Activation)
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
