package colstore

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the parameters of the shared store. The zero value is not
// usable; start from DefaultConfig and override as needed.
type Config struct {
	// Path is the backing file, relative to the process working directory.
	// The environment is opened in single-file mode (no subdirectory).
	Path string `yaml:"path"`

	// Table is the named key-value table inside the environment. It is
	// created on first use with duplicate values per key, sorted.
	Table string `yaml:"table"`

	// MapSize is the upper bound of the memory map in bytes.
	MapSize int64 `yaml:"map_size"`

	// MaxReaders bounds the reader lock table. Zero keeps the engine default.
	MaxReaders int `yaml:"max_readers"`

	// Mode is the file permission mode for the backing file.
	Mode fs.FileMode `yaml:"mode"`
}

// DefaultConfig returns the configuration the original deployment uses:
// a fixed relative path, a shared 0664 file, and a 1GiB map.
func DefaultConfig() Config {
	return Config{
		Path:    "./colstore-shared-collections",
		Table:   "collections",
		MapSize: 1 << 30,
		Mode:    0664,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// Missing keys keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("colstore: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("colstore: parse config: %w", err)
	}
	if cfg.Path == "" {
		return cfg, fmt.Errorf("colstore: config: path must not be empty")
	}
	if cfg.Table == "" {
		return cfg, fmt.Errorf("colstore: config: table must not be empty")
	}
	return cfg, nil
}
