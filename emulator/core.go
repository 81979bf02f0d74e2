package emulator

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/ezrec/ls8/cpu"
)

// Core is a post-mortem snapshot of the machine.
type Core struct {
	Pc       int              `cbor:"1,keyasint"`
	Register cpu.RegisterFile `cbor:"2,keyasint"`
	Flags    cpu.Flags        `cbor:"3,keyasint"`
	Halted   bool             `cbor:"4,keyasint"`
	Ticks    int              `cbor:"5,keyasint"`
	Memory   []uint8          `cbor:"6,keyasint"`
	Error    string           `cbor:"7,keyasint,omitempty"`
}

// coreWire is Core without its marshaling methods.
type coreWire Core

var coreEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	coreEncMode = em
}

// Core captures the machine state, along with the error that stopped it.
func (emu *Emulator) Core(cause error) (core *Core) {
	core = &Core{
		Pc:       emu.Cpu.Pc,
		Register: emu.Cpu.Register,
		Flags:    emu.Cpu.Flags,
		Halted:   emu.Cpu.Halted,
		Ticks:    emu.Cpu.Ticks,
		Memory:   append([]uint8(nil), emu.Cpu.Memory.Data...),
	}

	if cause != nil {
		core.Error = cause.Error()
	}

	return
}

// MarshalBinary encodes the core as canonical CBOR.
func (core *Core) MarshalBinary() ([]byte, error) {
	return coreEncMode.Marshal((*coreWire)(core))
}

// UnmarshalBinary decodes a CBOR core.
func (core *Core) UnmarshalBinary(data []byte) error {
	return cbor.Unmarshal(data, (*coreWire)(core))
}
