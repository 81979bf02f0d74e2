// Package cpu implements the processor and assembler for the LS-8 system.
//
// The CPU consists of a program counter (PC), eight 8-bit general-purpose
// registers (R0-R7), an ALU, and three condition flags (L, G, E) set by
// compare. Register R7 is the stack pointer by convention; the stack lives
// in the top of the 256 byte memory and grows downward.
//
// Every instruction is fetched through a fixed three byte window: the
// opcode and two operand bytes. The upper two bits of an opcode give the
// number of operands that instruction actually consumes.
//
// The assembler provides a small assembly language for the LS-8 instruction
// set, supporting labels, equates, data bytes, and compile-time expression
// evaluation.
package cpu
