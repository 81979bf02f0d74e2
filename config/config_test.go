package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/cpu"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.Equal(cpu.MEMORY_SIZE, cfg.Machine.Memory)
	assert.Equal(uint8(cpu.STACK_TOP), cfg.Machine.StackTop)
	assert.Equal(0, cfg.Machine.MaxTicks)
	assert.False(cfg.Output.Verbose)
	assert.NoError(cfg.Validate())
}

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Decode(strings.NewReader(`
[machine]
memory = 128
stack_top = 0x70
max_ticks = 1000

[output]
verbose = true
`))
	assert.NoError(err)
	assert.Equal(128, cfg.Machine.Memory)
	assert.Equal(uint8(0x70), cfg.Machine.StackTop)
	assert.Equal(1000, cfg.Machine.MaxTicks)
	assert.True(cfg.Output.Verbose)
}

func TestDecode_Partial(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Decode(strings.NewReader("[machine]\nmax_ticks = 5\n"))
	assert.NoError(err)
	assert.Equal(cpu.MEMORY_SIZE, cfg.Machine.Memory)
	assert.Equal(uint8(cpu.STACK_TOP), cfg.Machine.StackTop)
	assert.Equal(5, cfg.Machine.MaxTicks)
}

func TestDecode_Invalid(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		text string
		err  error
	}){
		{"memory_zero", "[machine]\nmemory = 0\n", ErrMemorySize},
		{"memory_large", "[machine]\nmemory = 512\n", ErrMemorySize},
		{"stack_top", "[machine]\nmemory = 16\n", ErrStackTop},
		{"stack_top_edge", "[machine]\nmemory = 128\nstack_top = 128\n", ErrStackTop},
		{"max_ticks", "[machine]\nmax_ticks = -1\n", ErrMaxTicks},
	}

	for _, entry := range table {
		cfg, err := Decode(strings.NewReader(entry.text))
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Nil(cfg, entry.name)
	}

	_, err := Decode(strings.NewReader("[machine\n"))
	assert.Error(err)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "ls8.toml")
	err := os.WriteFile(path, []byte("[output]\nverbose = true\n"), 0644)
	assert.NoError(err)

	cfg, err := Load(path)
	assert.NoError(err)
	assert.True(cfg.Output.Verbose)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(err, os.ErrNotExist)
}
