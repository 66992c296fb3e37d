package dynamodblocal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a yaml configuration file and merges it over the
// defaults. A missing file is not an error; the defaults are returned
// unchanged so callers can treat the file as optional.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", path, err)
	}

	if err := checkConfig(cfg); err != nil {
		return Config{}, &OpError{Op: OpConfigure, Path: path, Err: err}
	}

	return cfg, nil
}
