package cpu

// Push decrements SP, then writes value at the new SP.
// SP is left unchanged if the new SP falls outside of memory.
func (cpu *Cpu) Push(value uint8) (err error) {
	sp := int(cpu.Register[REG_SP]) - 1
	if sp < 0 || sp >= cpu.Memory.Size() {
		err = ErrAddress(sp)
		return
	}

	err = cpu.Memory.Write(sp, value)
	if err != nil {
		return
	}

	cpu.Register[REG_SP] = uint8(sp)
	return
}

// Pop reads the value at SP, then increments SP.
// SP is left unchanged if either SP or the new SP falls outside of memory.
func (cpu *Cpu) Pop() (value uint8, err error) {
	sp := int(cpu.Register[REG_SP])

	value, err = cpu.Memory.Read(sp)
	if err != nil {
		return
	}

	if sp+1 >= cpu.Memory.Size() {
		value = 0
		err = ErrAddress(sp + 1)
		return
	}

	cpu.Register[REG_SP] = uint8(sp + 1)
	return
}

// Peek returns the value at the top of the stack.
func (cpu *Cpu) Peek() (value uint8, err error) {
	return cpu.Memory.Read(int(cpu.Register[REG_SP]))
}
