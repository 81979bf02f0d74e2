// Package config handles the ls8.toml machine configuration.
package config

import (
	"errors"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	ErrMemorySize = errors.New(f("memory size must be 1 to 256 bytes"))
	ErrStackTop   = errors.New(f("stack top outside of memory"))
	ErrMaxTicks   = errors.New(f("max ticks must not be negative"))
)

// Config is the machine and output configuration.
type Config struct {
	Machine Machine `toml:"machine"`
	Output  Output  `toml:"output"`
}

// Machine configures the simulated hardware.
type Machine struct {
	Memory   int   `toml:"memory"`    // Memory size, in bytes.
	StackTop uint8 `toml:"stack_top"` // Stack pointer after reset.
	MaxTicks int   `toml:"max_ticks"` // Tick limit for a run; 0 is unlimited.
}

// Output configures diagnostics.
type Output struct {
	Verbose bool `toml:"verbose"`
}

// Default returns the reference LS-8 configuration.
func Default() *Config {
	return &Config{
		Machine: Machine{
			Memory:   cpu.MEMORY_SIZE,
			StackTop: cpu.STACK_TOP,
		},
	}
}

// Decode reads a TOML configuration over the defaults.
func Decode(r io.Reader) (cfg *Config, err error) {
	cfg = Default()

	_, err = toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		cfg = nil
		return
	}

	err = cfg.Validate()
	if err != nil {
		cfg = nil
	}

	return
}

// Load reads a TOML configuration file over the defaults.
func Load(path string) (cfg *Config, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return Decode(inf)
}

// Validate checks the configuration is runnable.
func (cfg *Config) Validate() (err error) {
	if cfg.Machine.Memory < 1 || cfg.Machine.Memory > cpu.MEMORY_SIZE {
		return ErrMemorySize
	}
	// The last pop leaves SP at StackTop.
	if int(cfg.Machine.StackTop) >= cfg.Machine.Memory {
		return ErrStackTop
	}
	if cfg.Machine.MaxTicks < 0 {
		return ErrMaxTicks
	}

	return
}
