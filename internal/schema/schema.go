// Package schema holds the table configuration the engine is built
// from: which fields each table indexes, and optional seed records
// inserted at startup. Tables not declared here can still be created
// implicitly at runtime; they just carry no indexed fields.
package schema

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// table name -> table config
	Tables map[string]Table `yaml:"tables"`
}

type Table struct {
	Indexed []string         `yaml:"indexed"`
	Seed    []map[string]any `yaml:"seed"`
}

func Parse(data []byte) (*Config, error) {
	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing schema config")
	}
	if cfg.Tables == nil {
		cfg.Tables = map[string]Table{}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading schema config %s", path)
	}
	return Parse(buf)
}

func (cfg *Config) validate() error {
	for name, table := range cfg.Tables {
		seen := map[string]bool{}
		for _, field := range table.Indexed {
			if field == "id" {
				return fmt.Errorf("table %s: id is the primary key and is always looked up directly", name)
			}
			if seen[field] {
				return fmt.Errorf("table %s: duplicate indexed field %s", name, field)
			}
			seen[field] = true
		}
	}
	return nil
}

// Default mirrors the sample users/orders layout the server ships
// with when no config file is given.
func Default() *Config {
	return &Config{Tables: map[string]Table{
		"users":  {Indexed: []string{"email"}},
		"orders": {Indexed: []string{"user_id", "product_name"}},
	}}
}
