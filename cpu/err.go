package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted               = errors.New(f("halted"))
	ErrAddressing           = errors.New(f("address out of range"))
	ErrInvalidRegister      = errors.New(f("register invalid"))
	ErrUnsupportedOperation = errors.New(f("unsupported alu operation"))
	ErrOutputMissing        = errors.New(f("output missing"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
	ErrProgramSize        = errors.New(f("program too large"))
)

// ErrDecode is returned when the fetched opcode is not in the instruction table.
type ErrDecode Instruction

func (ed ErrDecode) Error() string {
	return f("bad opcode 0x%02x at pc 0x%02x", uint8(ed.Opcode), ed.Pc)
}

func (ed ErrDecode) Is(err error) (ok bool) {
	_, ok = err.(ErrDecode)
	return
}

// ErrInstruction identifies the instruction that failed to execute.
type ErrInstruction Instruction

func (ei ErrInstruction) Error() string {
	return f("pc 0x%02x %v", ei.Pc, Instruction(ei).String())
}

func (ei ErrInstruction) Is(err error) (ok bool) {
	_, ok = err.(ErrInstruction)
	return
}

// ErrAddress indicates an access outside of memory.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address 0x%02x out of range", int(ea))
}

func (ea ErrAddress) Unwrap() error {
	return ErrAddressing
}

// ErrRegister indicates a register index outside of the register file.
type ErrRegister int

func (er ErrRegister) Error() string {
	return f("register %d invalid", int(er))
}

func (er ErrRegister) Unwrap() error {
	return ErrInvalidRegister
}

// ErrAluOp indicates an ALU operation outside of the closed ALU set.
type ErrAluOp AluOp

func (eo ErrAluOp) Error() string {
	return f("alu op %d", int(eo))
}

func (eo ErrAluOp) Unwrap() error {
	return ErrUnsupportedOperation
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
