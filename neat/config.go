package neat

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/baldhumanity/neatlite/neat/nn"
)

// NumConfigValues is the number of numeric parameters accepted by NewConfigFromSlice.
const NumConfigValues = 12

// ErrUnknownConfigKey is returned when a configuration source names a parameter that does not exist.
var ErrUnknownConfigKey = errors.New("unrecognized config key")

// Config stores the parameters of an evolutionary run. It is treated as an
// immutable value once a Population has been built from it.
type Config struct {
	// --- Compatibility distance ---
	MultDisjoint   float64 // c1, weight of disjoint genes
	MultExcess     float64 // c2, weight of excess genes
	MultWeightDiff float64 // c3, weight of the mean weight difference of matching genes

	// --- Weight mutation strengths ---
	WeightShiftStrength  float64 // Shift draws from uniform(-S, S)
	WeightRandomStrength float64 // Replacement draws from uniform(-R, R)

	// --- Mutation probabilities, each checked independently per Mutate call ---
	ProbMutateLink         float64
	ProbMutateNode         float64
	ProbMutateWeightShift  float64
	ProbMutateWeightRandom float64
	ProbMutateToggleLink   float64

	// --- Speciation and selection ---
	SpeciesThreshold float64 // Clients closer than this to a representative join its species
	KillPercentage   float64 // Fraction of every species removed each generation

	Activation string // "sigmoid" or "relu"
	Bias       bool   // Adds a constant 1.0 input node to every genome
}

type configField struct {
	key   string
	value *float64
}

// numericFields lists the numeric parameters in NewConfigFromSlice order.
func (c *Config) numericFields() []configField {
	return []configField{
		{"mult_disjoint", &c.MultDisjoint},
		{"mult_excess", &c.MultExcess},
		{"mult_weight_diff", &c.MultWeightDiff},
		{"weight_shift_strength", &c.WeightShiftStrength},
		{"weight_random_strength", &c.WeightRandomStrength},
		{"prob_mutate_link", &c.ProbMutateLink},
		{"prob_mutate_node", &c.ProbMutateNode},
		{"prob_mutate_weight_shift", &c.ProbMutateWeightShift},
		{"prob_mutate_weight_random", &c.ProbMutateWeightRandom},
		{"prob_mutate_toggle_link", &c.ProbMutateToggleLink},
		{"species_threshold", &c.SpeciesThreshold},
		{"kill_percentage", &c.KillPercentage},
	}
}

// DefaultConfig returns the stock parameter set.
func DefaultConfig() *Config {
	return &Config{
		MultDisjoint:           3.0,
		MultExcess:             2.0,
		MultWeightDiff:         4.0,
		WeightShiftStrength:    0.3,
		WeightRandomStrength:   1.0,
		ProbMutateLink:         0.4,
		ProbMutateNode:         0.4,
		ProbMutateWeightShift:  0.4,
		ProbMutateWeightRandom: 0.4,
		ProbMutateToggleLink:   0.4,
		SpeciesThreshold:       4.0,
		KillPercentage:         0.2,
		Activation:             "sigmoid",
		Bias:                   true,
	}
}

// NewConfigFromSlice builds a Config from exactly NumConfigValues numbers, in
// the order c1, c2, c3, S, R, the five mutation probabilities, species
// threshold and kill percentage, plus an activation name.
func NewConfigFromSlice(values []float64, activation string) (*Config, error) {
	if len(values) != NumConfigValues {
		return nil, fmt.Errorf("config error: expected %d values, got %d", NumConfigValues, len(values))
	}
	config := &Config{Activation: activation, Bias: true}
	for i, f := range config.numericFields() {
		*f.value = values[i]
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig loads configuration parameters from a file. Files ending in
// .yaml or .yml are read as a flat YAML mapping, anything else as
// line-oriented "key: value" text.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	var config *Config
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		config, err = parseYAMLConfig(data)
	default:
		config, err = ParseConfig(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	return config, nil
}

// ParseConfig reads "key: value" lines. Keys are case-insensitive, blank lines
// and comments are ignored, and every parameter except bias must be present.
func ParseConfig(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	file, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:        true,
		KeyValueDelimiters: ":",
	}, data)
	if err != nil {
		return nil, fmt.Errorf("invalid config syntax: %w", err)
	}

	builder := newConfigBuilder()
	for _, section := range file.Sections() {
		if !strings.EqualFold(section.Name(), ini.DefaultSection) {
			return nil, fmt.Errorf("config error: unexpected section [%s]", section.Name())
		}
		for _, key := range section.Keys() {
			if err := builder.set(key.Name(), key.String()); err != nil {
				return nil, err
			}
		}
	}
	return builder.build()
}

func parseYAMLConfig(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	builder := newConfigBuilder()
	if len(doc.Content) == 0 {
		return builder.build()
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config error: expected a mapping at the top level")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("config error: value of '%s' must be a scalar", key.Value)
		}
		if err := builder.set(key.Value, value.Value); err != nil {
			return nil, err
		}
	}
	return builder.build()
}

// configBuilder accumulates key/value pairs and remembers which ones were seen.
type configBuilder struct {
	config *Config
	seen   map[string]bool
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		config: &Config{Bias: true},
		seen:   make(map[string]bool),
	}
}

func (b *configBuilder) set(rawKey, rawValue string) error {
	key := strings.ToLower(strings.TrimSpace(rawKey))
	value := cleanConfigString(rawValue)

	switch key {
	case "activation":
		b.config.Activation = strings.ToLower(value)
		b.seen[key] = true
		return nil
	case "bias":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("config error: invalid bool for '%s': %q", key, value)
		}
		b.config.Bias = v
		b.seen[key] = true
		return nil
	}

	for _, f := range b.config.numericFields() {
		if f.key != key {
			continue
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("config error: invalid number for '%s': %q", key, value)
		}
		*f.value = v
		b.seen[key] = true
		return nil
	}
	return fmt.Errorf("%w: '%s'", ErrUnknownConfigKey, rawKey)
}

func (b *configBuilder) build() (*Config, error) {
	var missing []string
	for _, f := range b.config.numericFields() {
		if !b.seen[f.key] {
			missing = append(missing, f.key)
		}
	}
	if !b.seen["activation"] {
		missing = append(missing, "activation")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("config error: missing parameters: %s", strings.Join(missing, ", "))
	}
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	return b.config, nil
}

// Validate checks that every parameter is in its valid range.
func (c *Config) Validate() error {
	if _, err := nn.GetActivation(c.Activation); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	for _, f := range c.numericFields() {
		if *f.value < 0 {
			return fmt.Errorf("config error: %s cannot be negative", f.key)
		}
	}
	probs := []configField{
		{"prob_mutate_link", &c.ProbMutateLink},
		{"prob_mutate_node", &c.ProbMutateNode},
		{"prob_mutate_weight_shift", &c.ProbMutateWeightShift},
		{"prob_mutate_weight_random", &c.ProbMutateWeightRandom},
		{"prob_mutate_toggle_link", &c.ProbMutateToggleLink},
		{"kill_percentage", &c.KillPercentage},
	}
	for _, f := range probs {
		if *f.value > 1 {
			return fmt.Errorf("config error: %s must be between 0 and 1", f.key)
		}
	}
	return nil
}

// ActivationFunc resolves the configured activation function.
func (c *Config) ActivationFunc() nn.ActivationType {
	fn, err := nn.GetActivation(c.Activation)
	if err != nil {
		panic(fmt.Sprintf("config holds an unvalidated activation: %v", err))
	}
	return fn
}

// cleanConfigString removes inline comments and trims whitespace.
func cleanConfigString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
