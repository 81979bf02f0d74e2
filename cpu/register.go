package cpu

import (
	"strings"
)

const (
	REGISTER_COUNT = 8    // General purpose registers.
	REG_SP         = 7    // Register used as the stack pointer.
	STACK_TOP      = 0xf4 // Stack pointer value after reset.
)

// RegisterFile is the bank of 8-bit general purpose registers.
// Arithmetic on register values wraps modulo 256.
type RegisterFile [REGISTER_COUNT]uint8

// Get a register value by index.
func (rf *RegisterFile) Get(index int) (value uint8, err error) {
	if index < 0 || index >= len(rf) {
		err = ErrRegister(index)
		return
	}

	value = rf[index]
	return
}

// Set a register value by index.
func (rf *RegisterFile) Set(index int, value uint8) (err error) {
	if index < 0 || index >= len(rf) {
		err = ErrRegister(index)
		return
	}

	rf[index] = value
	return
}

// Flags are the condition bits written by compare, laid out as 00000LGE.
type Flags uint8

const (
	FLAG_E = Flags(1 << 0) // Equal
	FLAG_G = Flags(1 << 1) // Greater
	FLAG_L = Flags(1 << 2) // Less
)

// Less returns true if the L flag is set.
func (fl Flags) Less() bool {
	return (fl & FLAG_L) != 0
}

// Greater returns true if the G flag is set.
func (fl Flags) Greater() bool {
	return (fl & FLAG_G) != 0
}

// Equal returns true if the E flag is set.
func (fl Flags) Equal() bool {
	return (fl & FLAG_E) != 0
}

func (fl Flags) String() string {
	var sb strings.Builder
	for _, bit := range []struct {
		flag Flags
		name byte
	}{{FLAG_L, 'L'}, {FLAG_G, 'G'}, {FLAG_E, 'E'}} {
		if (fl & bit.flag) != 0 {
			sb.WriteByte(bit.name)
		} else {
			sb.WriteByte('-')
		}
	}
	return sb.String()
}
