package cpu

import (
	"fmt"
)

// Opcode is an LS-8 instruction byte.
//
// The encoding is AABCDDDD:
//   - AA: number of operand bytes used by the instruction.
//   - B: set if the instruction is handled by the ALU.
//   - C: set if the instruction sets the PC itself.
//   - DDDD: instruction identifier.
type Opcode uint8

const (
	OP_HLT  = Opcode(0b00000001) // HLT
	OP_RET  = Opcode(0b00010001) // RET
	OP_PUSH = Opcode(0b01000101) // PUSH
	OP_POP  = Opcode(0b01000110) // POP
	OP_PRN  = Opcode(0b01000111) // PRN
	OP_CALL = Opcode(0b01010000) // CALL
	OP_JMP  = Opcode(0b01010100) // JMP
	OP_JEQ  = Opcode(0b01010101) // JEQ
	OP_JNE  = Opcode(0b01010110) // JNE
	OP_LDI  = Opcode(0b10000010) // LDI
	OP_ADD  = Opcode(0b10100000) // ADD
	OP_MUL  = Opcode(0b10100010) // MUL
	OP_CMP  = Opcode(0b10100111) // CMP
)

const (
	OPCODE_OPERANDS_SHIFT = 6
	OPCODE_ALU            = Opcode(1 << 5)
	OPCODE_SETS_PC        = Opcode(1 << 4)
)

// opcodeName is the instruction table, keyed by opcode.
var opcodeName = map[Opcode]string{
	OP_HLT:  "HLT",
	OP_RET:  "RET",
	OP_PUSH: "PUSH",
	OP_POP:  "POP",
	OP_PRN:  "PRN",
	OP_CALL: "CALL",
	OP_JMP:  "JMP",
	OP_JEQ:  "JEQ",
	OP_JNE:  "JNE",
	OP_LDI:  "LDI",
	OP_ADD:  "ADD",
	OP_MUL:  "MUL",
	OP_CMP:  "CMP",
}

// opcodeMap maps mnemonics back to opcodes.
var opcodeMap = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeName))
	for op, name := range opcodeName {
		m[name] = op
	}
	return m
}()

// LookupOpcode returns the opcode for a mnemonic.
func LookupOpcode(name string) (op Opcode, ok bool) {
	op, ok = opcodeMap[name]
	return
}

// Valid returns true if the opcode is in the instruction table.
func (op Opcode) Valid() bool {
	_, ok := opcodeName[op]
	return ok
}

// Operands returns the number of operand bytes the opcode consumes.
func (op Opcode) Operands() int {
	return int(op >> OPCODE_OPERANDS_SHIFT)
}

// Size returns the length in bytes of the instruction.
func (op Opcode) Size() int {
	return 1 + op.Operands()
}

// IsAlu returns true if the instruction is handled by the ALU.
func (op Opcode) IsAlu() bool {
	return (op & OPCODE_ALU) != 0
}

// SetsPc returns true if the instruction sets the PC directly.
func (op Opcode) SetsPc() bool {
	return (op & OPCODE_SETS_PC) != 0
}

func (op Opcode) String() string {
	name, ok := opcodeName[op]
	if !ok {
		return fmt.Sprintf("Opcode(0b%08b)", uint8(op))
	}
	return name
}

// AluOp is an ALU operation.
type AluOp int

const (
	ALU_OP_ADD = AluOp(0) // add
	ALU_OP_MUL = AluOp(1) // mul
	ALU_OP_CMP = AluOp(2) // cmp
)

// aluMap statically maps ALU instructions to their ALU operation.
var aluMap = map[Opcode]AluOp{
	OP_ADD: ALU_OP_ADD,
	OP_MUL: ALU_OP_MUL,
	OP_CMP: ALU_OP_CMP,
}

func (op AluOp) String() string {
	switch op {
	case ALU_OP_ADD:
		return "add"
	case ALU_OP_MUL:
		return "mul"
	case ALU_OP_CMP:
		return "cmp"
	}
	return fmt.Sprintf("AluOp(%d)", int(op))
}

// Instruction is the fixed three byte fetch window at a PC.
type Instruction struct {
	Pc     int    // Address of the opcode.
	Opcode Opcode // Opcode byte.
	A      uint8  // First operand byte.
	B      uint8  // Second operand byte.
}

// String returns the assembly language representation of this instruction.
func (in Instruction) String() (out string) {
	switch in.Opcode.Operands() {
	case 0:
		out = in.Opcode.String()
	case 1:
		out = fmt.Sprintf("%v R%d", in.Opcode, in.A)
	default:
		if in.Opcode == OP_LDI {
			out = fmt.Sprintf("%v R%d,%d", in.Opcode, in.A, in.B)
		} else {
			out = fmt.Sprintf("%v R%d,R%d", in.Opcode, in.A, in.B)
		}
	}

	return
}
