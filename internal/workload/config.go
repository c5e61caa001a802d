package workload

import (
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// Config describes one workload run.
type Config struct {
	// Operations is the number of random operations applied after the
	// initial fill.
	Operations int

	Storage StorageConfig
	List    ListConfig
	Mix     MixConfig
}

// StorageConfig sizes the arena.
type StorageConfig struct {
	Capacity int // bytes
}

// ListConfig sets up the list before the random phase.
type ListConfig struct {
	Elements int    // records pushed before the first operation
	Seed     uint64 // seed of the operation stream
}

// MixConfig holds the relative weight of each operation. A zero weight
// disables the operation.
type MixConfig struct {
	PushBack  int
	PushFront int
	PopBack   int
	PopFront  int
	Insert    int
	Erase     int
}

// DefaultConfig is a push-heavy mix over a 1 MiB arena.
var DefaultConfig = Config{
	Operations: 100_000,
	Storage:    StorageConfig{Capacity: 1 << 20},
	List:       ListConfig{Elements: 1000, Seed: 1},
	Mix: MixConfig{
		PushBack:  4,
		PushFront: 2,
		PopBack:   1,
		PopFront:  1,
		Insert:    2,
		Erase:     2,
	},
}

// weights returns the mix indexed by Op.
func (m MixConfig) weights() [numOps]int {
	return [numOps]int{
		OpPushBack:  m.PushBack,
		OpPushFront: m.PushFront,
		OpPopBack:   m.PopBack,
		OpPopFront:  m.PopFront,
		OpInsert:    m.Insert,
		OpErase:     m.Erase,
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys that do not
// map to a Config field are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrapf(err, "load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.Newf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate checks that cfg describes a runnable workload.
func (c Config) Validate() error {
	if c.Storage.Capacity <= 0 {
		return errors.Newf("storage capacity must be positive, got %d", c.Storage.Capacity)
	}
	return c.validateRun()
}

// validateRun checks everything but the storage section.
func (c Config) validateRun() error {
	switch {
	case c.List.Elements < 0:
		return errors.Newf("negative element count %d", c.List.Elements)
	case c.Operations < 0:
		return errors.Newf("negative operation count %d", c.Operations)
	}
	total := 0
	for op, w := range c.Mix.weights() {
		if w < 0 {
			return errors.Newf("negative weight %d for %s", w, Op(op))
		}
		total += w
	}
	if total == 0 && c.Operations > 0 {
		return errors.New("operation mix has no positive weight")
	}
	return nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
