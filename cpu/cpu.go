package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%d", MEMORY_SIZE),
	"STACK_TOP":   fmt.Sprintf("0x%02x", STACK_TOP),
	"SP":          fmt.Sprintf("R%d", REG_SP),
}

// Output receives the values printed by PRN.
type Output interface {
	Print(value uint8) error
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory   *Memory      // Main memory, shared with the stack.
	Register RegisterFile // Register bank. R7 is the stack pointer.
	Pc       int          // Address of the next opcode to fetch.
	Flags    Flags        // Condition flags from the last compare.
	Halted   bool         // Set once HLT has executed.

	StackTop uint8  // Stack pointer value after reset.
	Output   Output // Destination of PRN.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU with a specifically sized memory.
func NewCpu(size int) (cpu *Cpu) {
	cpu = &Cpu{
		Memory:   NewMemory(size),
		StackTop: STACK_TOP,
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %02X\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %v\n", "fl", cpu.Flags)
	for n, val := range cpu.Register {
		name := fmt.Sprintf("r%d", n)
		if n == REG_SP {
			name = "sp"
		}
		text += fmt.Sprintf("% 5s: %02X\n", name, val)
	}

	return
}

// Trace returns a single line dump of the PC, the fetch window, and
// the register bank.
func (cpu *Cpu) Trace() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TRACE: %02X |", cpu.Pc)
	for n := range 3 {
		val, err := cpu.Memory.Read(cpu.Pc + n)
		if err != nil {
			sb.WriteString(" --")
		} else {
			fmt.Fprintf(&sb, " %02X", val)
		}
	}
	sb.WriteString(" |")
	for _, val := range cpu.Register {
		fmt.Fprintf(&sb, " %02X", val)
	}

	return sb.String()
}

// Reset the CPU state.
// - Clears the registers, flags, and memory.
// - Zeros statistics counters.
// - Sets the stack pointer to the top of stack.
// - Sets the PC to address 0.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Memory.Reset()
	cpu.Register[REG_SP] = cpu.StackTop
	cpu.Flags = 0
	cpu.Pc = 0
	cpu.Halted = false
	cpu.Ticks = 0
}

// Load writes a program image into memory starting at address 0.
func (cpu *Cpu) Load(image []uint8) (err error) {
	for n, value := range image {
		err = cpu.Memory.Write(n, value)
		if err != nil {
			return
		}
	}

	return
}

// Fetch reads the opcode and both operand bytes at the PC, whether or
// not the opcode uses them.
func (cpu *Cpu) Fetch() (in Instruction, err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	var window [3]uint8
	for n := range window {
		window[n], err = cpu.Memory.Read(cpu.Pc + n)
		if err != nil {
			return
		}
	}

	in = Instruction{
		Pc:     cpu.Pc,
		Opcode: Opcode(window[0]),
		A:      window[1],
		B:      window[2],
	}

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	in, err := cpu.Fetch()
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%v  %v", cpu.Trace(), in)
	}

	err = cpu.Execute(in)
	if err != nil {
		return
	}

	cpu.Ticks += 1

	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(in Instruction) (err error) {
	defer func() {
		if err != nil && !errors.Is(err, ErrDecode{}) {
			err = errors.Join(ErrInstruction(in), err)
		}
	}()

	a := int(in.A)
	b := int(in.B)

	next_pc := in.Pc + in.Opcode.Size()

	switch in.Opcode {
	case OP_LDI:
		err = cpu.Register.Set(a, in.B)
	case OP_ADD, OP_MUL, OP_CMP:
		err = cpu.Alu(aluMap[in.Opcode], a, b)
	case OP_PRN:
		var val uint8
		val, err = cpu.Register.Get(a)
		if err != nil {
			return
		}
		if cpu.Output == nil {
			err = ErrOutputMissing
			return
		}
		err = cpu.Output.Print(val)
	case OP_PUSH:
		var val uint8
		val, err = cpu.Register.Get(a)
		if err != nil {
			return
		}
		err = cpu.Push(val)
	case OP_POP:
		// Check the destination before moving SP.
		_, err = cpu.Register.Get(a)
		if err != nil {
			return
		}
		var val uint8
		val, err = cpu.Pop()
		if err != nil {
			return
		}
		err = cpu.Register.Set(a, val)
	case OP_CALL:
		var target uint8
		target, err = cpu.Register.Get(a)
		if err != nil {
			return
		}
		err = cpu.Push(uint8(in.Pc + 2))
		if err != nil {
			return
		}
		next_pc = int(target)
	case OP_RET:
		var target uint8
		target, err = cpu.Pop()
		if err != nil {
			return
		}
		next_pc = int(target)
	case OP_JMP, OP_JEQ, OP_JNE:
		var target uint8
		target, err = cpu.Register.Get(a)
		if err != nil {
			return
		}
		switch {
		case in.Opcode == OP_JMP,
			in.Opcode == OP_JEQ && cpu.Flags.Equal(),
			in.Opcode == OP_JNE && !cpu.Flags.Equal():
			next_pc = int(target)
		}
	case OP_HLT:
		cpu.Halted = true
		if cpu.Verbose {
			log.Printf("cpu: halted at %02x", in.Pc)
		}
	default:
		err = ErrDecode(in)
		return
	}

	if err != nil {
		return
	}

	cpu.Pc = next_pc

	return
}
