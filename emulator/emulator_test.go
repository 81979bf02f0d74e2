package emulator

import (
	"bytes"
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/config"
	"github.com/ezrec/ls8/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)

	assert.False(emu.Verbose)
	assert.Equal(cpu.MEMORY_SIZE, emu.Cpu.Memory.Size())
	assert.Equal(uint8(cpu.STACK_TOP), emu.Cpu.StackTop)
	assert.Equal(&emu.Tape, emu.Cpu.Output)
}

func TestEmulator_Config(t *testing.T) {
	assert := assert.New(t)

	cfg := config.Default()
	cfg.Machine.Memory = 64
	cfg.Machine.StackTop = 0x40
	cfg.Machine.MaxTicks = 10
	cfg.Output.Verbose = true

	emu := NewEmulator(cfg)
	assert.True(emu.Verbose)
	assert.Equal(64, emu.Cpu.Memory.Size())
	assert.Equal(10, emu.MaxTicks)

	assert.NoError(emu.Reset())
	assert.Equal(uint8(0x40), emu.Cpu.Register[cpu.REG_SP])

	defines := maps.Collect(emu.Defines())
	assert.Equal("64", defines["MEMORY_SIZE"])
	assert.Equal("0x40", defines["STACK_TOP"])
	assert.Equal("R7", defines["SP"])
}

// doRun assembles a program, and runs it to completion.
func doRun(emu *Emulator, program []string, t *testing.T) (output string, err error) {
	assert := assert.New(t)

	asm := &cpu.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.FailNow()
	}
	emu.Assemble(prog)

	err = emu.Reset()
	assert.NoError(err)

	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	err = emu.Run()

	output = tape_output.String()
	return
}

func TestEmulator_Print8(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	output, err := doRun(emu, []string{
		"LDI R0,8",
		"PRN R0",
		"HLT",
	}, t)
	assert.NoError(err)
	assert.Equal("8\n", output)
	assert.True(emu.Cpu.Halted)
	assert.Equal(3, emu.Cpu.Ticks)
}

func TestEmulator_Mult(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	output, err := doRun(emu, []string{
		"LDI R0,5",
		"LDI R1,6",
		"MUL R0,R1",
		"PRN R0",
		"HLT",
	}, t)
	assert.NoError(err)
	assert.Equal("30\n", output)
}

func TestEmulator_Stack(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	output, err := doRun(emu, []string{
		"LDI R0,1",
		"LDI R1,2",
		"PUSH R0",
		"PUSH R1",
		"LDI R0,3",
		"POP R0",
		"PRN R0",
		"PRN R1",
		"LDI R1,4",
		"PUSH R1",
		"POP R0",
		"PRN R0",
		"POP R0",
		"PRN R0",
		"HLT",
	}, t)
	assert.NoError(err)
	assert.Equal("2\n2\n4\n1\n", output)
	assert.Equal(uint8(cpu.STACK_TOP), emu.Cpu.Register[cpu.REG_SP])
}

func TestEmulator_Call(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	output, err := doRun(emu, []string{
		"        LDI R1,Mult2Print",
		"        LDI R0,10",
		"        CALL R1",
		"        LDI R0,15",
		"        CALL R1",
		"        LDI R0,18",
		"        CALL R1",
		"        LDI R0,30",
		"        CALL R1",
		"        HLT",
		"Mult2Print:",
		"        ADD R0,R0",
		"        PRN R0",
		"        RET",
	}, t)
	assert.NoError(err)
	assert.Equal("20\n30\n36\n60\n", output)
	assert.Equal(uint8(cpu.STACK_TOP), emu.Cpu.Register[cpu.REG_SP])
}

func TestEmulator_Sctest(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	output, err := doRun(emu, []string{
		"        LDI R0,10",
		"        LDI R1,20",
		"        LDI R2,Test1",
		"        CMP R0,R1",
		"        JEQ R2       ; Does not jump because R0 != R1",
		"        LDI R3,1",
		"        PRN R3       ; Prints 1",
		"Test1:",
		"        LDI R2,Test2",
		"        CMP R0,R1",
		"        JNE R2       ; Jumps because R0 != R1",
		"        LDI R3,0",
		"        PRN R3       ; Skipped",
		"Test2:",
		"        LDI R1,10",
		"        LDI R2,Test3",
		"        CMP R0,R1",
		"        JEQ R2       ; Jumps because R0 == R1",
		"        LDI R3,0",
		"        PRN R3       ; Skipped",
		"Test3:",
		"        LDI R2,Test4",
		"        CMP R0,R1",
		"        JNE R2       ; Does not jump because R0 == R1",
		"        LDI R3,4",
		"        PRN R3       ; Prints 4",
		"Test4:",
		"        LDI R3,5",
		"        PRN R3       ; Prints 5",
		"        LDI R2,Test5",
		"        JMP R2       ; Jumps unconditionally",
		"        PRN R3       ; Skipped",
		"Test5:",
		"        HLT",
	}, t)
	assert.NoError(err)
	assert.Equal("1\n4\n5\n", output)
}

func TestEmulator_DecodeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	output, err := doRun(emu, []string{
		"LDI R0,8",
		"PRN R0",
		"DB 0xff",
		"PRN R0",
		"HLT",
	}, t)
	assert.ErrorIs(err, cpu.ErrDecode{})
	assert.Equal("8\n", output)
	assert.False(emu.Cpu.Halted)

	var re *ErrRuntime
	if assert.True(errors.As(err, &re)) {
		assert.Equal(5, re.Pc)
		assert.Equal(3, re.LineNo)
	}
}

func TestEmulator_RuntimeErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		err     error
	}){
		{"register", []string{"LDI R0,1", "DB 0x82, 9, 1"}, cpu.ErrInvalidRegister},
		{"fetch", []string{"LDI R0,0xff", "JMP R0"}, cpu.ErrAddressing},
		{"loop", []string{"loop: LDI R0,loop", "JMP R0"}, ErrTickLimit},
		{"pop", []string{"LDI SP,0xff", "POP R0"}, cpu.ErrAddressing},
		{"ret", []string{"LDI SP,0xff", "RET"}, cpu.ErrAddressing},
		{"call", []string{"LDI SP,0", "LDI R0,0", "CALL R0"}, cpu.ErrAddressing},
	}

	for _, entry := range table {
		cfg := config.Default()
		cfg.Machine.MaxTicks = 100
		emu := NewEmulator(cfg)
		_, err := doRun(emu, entry.program, t)
		assert.ErrorIs(err, entry.err, entry.name)
		assert.NotErrorIs(err, cpu.ErrDecode{}, entry.name)
	}
}

func TestEmulator_StackOverflow(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	_, err := doRun(emu, []string{
		"LDI SP,1",
		"PUSH R0",
		"PUSH R0",
		"HLT",
	}, t)
	assert.ErrorIs(err, cpu.ErrAddressing)
	assert.Equal(uint8(0), emu.Cpu.Register[cpu.REG_SP])
	assert.Equal(5, emu.Cpu.Pc)
	assert.Equal(2, emu.Cpu.Ticks)
	assert.False(emu.Cpu.Halted)

	var re *ErrRuntime
	if assert.True(errors.As(err, &re)) {
		assert.Equal(5, re.Pc)
		assert.Equal(3, re.LineNo)
	}
}

func TestEmulator_Tick(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	emu.Rom.Data = []uint8{uint8(cpu.OP_LDI), 0, 8, uint8(cpu.OP_HLT)}
	assert.NoError(emu.Reset())
	assert.Equal(0, emu.LineNo())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)

	done, err = emu.Tick()
	assert.NoError(err)
	assert.True(done)

	done, err = emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(2, emu.Cpu.Ticks)
}

func TestEmulator_Reset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)
	emu.Rom.Data = []uint8{uint8(cpu.OP_LDI), 0, 8, uint8(cpu.OP_PUSH), 0, uint8(cpu.OP_HLT)}
	emu.Tape.Output = &bytes.Buffer{}
	assert.NoError(emu.Reset())
	assert.NoError(emu.Run())
	assert.Equal(uint8(8), emu.Cpu.Memory.Data[cpu.STACK_TOP-1])

	assert.NoError(emu.Reset())
	assert.Equal(0, emu.Cpu.Pc)
	assert.False(emu.Cpu.Halted)
	assert.Equal(uint8(0), emu.Cpu.Register[0])
	assert.Equal(uint8(0), emu.Cpu.Memory.Data[cpu.STACK_TOP-1])
	assert.Equal(uint8(cpu.OP_LDI), emu.Cpu.Memory.Data[0])

	emu.Rom.Data = make([]uint8, cpu.MEMORY_SIZE+1)
	assert.Error(emu.Reset())
}

func TestErrRuntime(t *testing.T) {
	assert := assert.New(t)

	err := &ErrRuntime{Pc: 0x12, Err: ErrTickLimit}
	assert.Equal("pc 0x12 tick limit exceeded", err.Error())

	err.LineNo = 7
	assert.Equal("line 7 pc 0x12 tick limit exceeded", err.Error())
	assert.ErrorIs(err, ErrTickLimit)
}
