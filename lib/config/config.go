// SPDX-License-Identifier: MIT
// Copyright (c) 2020 Brian Starkey <stark3y@gmail.com>
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/usedbytes/xor-tools/lib/xor"
)

type Keysize struct {
	Min        int `toml:"min"`
	Max        int `toml:"max"`
	Candidates int `toml:"candidates"`
}

type Config struct {
	Keysize  Keysize  `toml:"keysize"`
	Parallel bool     `toml:"parallel"`
	Encoding Encoding `toml:"encoding,omitempty"`
}

func Default() *Config {
	opts := xor.DefaultOptions()
	return &Config{
		Keysize: Keysize{
			Min:        opts.MinKeysize,
			Max:        opts.MaxKeysize,
			Candidates: opts.Candidates,
		},
		Parallel: opts.Parallel,
		Encoding: Raw,
	}
}

// Load reads a TOML config file. Anything not set in the file keeps its
// default value.
func Load(file string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(file, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "Loading config")
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, errors.Errorf("unrecognised config keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "Invalid config")
	}

	return cfg, nil
}

func (c *Config) Options() xor.Options {
	return xor.Options{
		MinKeysize: c.Keysize.Min,
		MaxKeysize: c.Keysize.Max,
		Candidates: c.Keysize.Candidates,
		Parallel:   c.Parallel,
	}
}

func (c *Config) Validate() error {
	return c.Options().Validate()
}

func (c *Config) String() string {
	var s string
	s += "Config:\n"
	s += fmt.Sprintf("   Keysize: %d..%d\n", c.Keysize.Min, c.Keysize.Max)
	s += fmt.Sprintf("   Candidates: %d\n", c.Keysize.Candidates)
	s += fmt.Sprintf("   Parallel: %s\n", strconv.FormatBool(c.Parallel))
	s += fmt.Sprintf("   Encoding: %s\n", c.Encoding.String())
	return s
}
