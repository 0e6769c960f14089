package stress

import (
	"os"

	"github.com/zeebo/errs"
	"gopkg.in/yaml.v3"
)

// Error is the class of errors returned by this package.
var Error = errs.Class("stress")

// Element kinds a run can store in its Slice.
const (
	KindU8     = "u8"
	KindU64    = "u64"
	KindF64    = "f64"
	KindRecord = "record"
)

// Run describes a single stress run.
type Run struct {
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"`       // u8 | u64 | f64 | record
	Stride     int    `yaml:"stride"`     // elements per generation
	Readers    int    `yaml:"readers"`    // reading goroutines
	Writers    int    `yaml:"writers"`    // writing goroutines
	Iterations int    `yaml:"iterations"` // loop count per goroutine
	HoldSpins  uint32 `yaml:"holdSpins"`  // max random spins a lease is held, 0 to release at once
}

// Config is the full stress configuration.
type Config struct {
	Runs []Run `yaml:"runs"`
}

// Default returns the run the Slice is specified against: 16 bytes hammered by
// two readers and two writers.
func Default() *Config {
	return &Config{Runs: []Run{{
		Name:       "default",
		Kind:       KindU8,
		Stride:     16,
		Readers:    2,
		Writers:    2,
		Iterations: 1000000,
	}}}
}

// Load reads the YAML configuration at path. Environment variables in the file
// are expanded.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return Parse(b)
}

// Parse decodes, defaults and validates a YAML configuration.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), &c); err != nil {
		return nil, Error.Wrap(err)
	}
	for i := range c.Runs {
		c.Runs[i].setDefaults()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Run) setDefaults() {
	if r.Kind == "" {
		r.Kind = KindU8
	}
	if r.Stride == 0 {
		r.Stride = 16
	}
	if r.Readers == 0 {
		r.Readers = 1
	}
	if r.Writers == 0 {
		r.Writers = 1
	}
	if r.Iterations == 0 {
		r.Iterations = 10000
	}
}

// Validate checks that every run can be executed.
func (c *Config) Validate() error {
	if len(c.Runs) == 0 {
		return Error.New("no runs configured")
	}
	seen := make(map[string]bool, len(c.Runs))
	for i, r := range c.Runs {
		switch {
		case r.Name == "":
			return Error.New("run %d: missing name", i)
		case seen[r.Name]:
			return Error.New("run %q: duplicate name", r.Name)
		case r.Stride < 1:
			return Error.New("run %q: stride must be positive", r.Name)
		case r.Readers < 0 || r.Writers < 0 || r.Iterations < 0:
			return Error.New("run %q: negative count", r.Name)
		}
		switch r.Kind {
		case KindU8, KindU64, KindF64, KindRecord:
		default:
			return Error.New("run %q: unknown kind %q", r.Name, r.Kind)
		}
		seen[r.Name] = true
	}
	return nil
}
