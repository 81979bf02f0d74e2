package cpu

// Alu performs an ALU operation on two registers, writing the result
// back to register a, or to the flags for a compare.
func (cpu *Cpu) Alu(op AluOp, a, b int) (err error) {
	va, err := cpu.Register.Get(a)
	if err != nil {
		return
	}
	vb, err := cpu.Register.Get(b)
	if err != nil {
		return
	}

	switch op {
	case ALU_OP_ADD:
		err = cpu.Register.Set(a, va+vb)
	case ALU_OP_MUL:
		err = cpu.Register.Set(a, va*vb)
	case ALU_OP_CMP:
		switch {
		case va < vb:
			cpu.Flags = FLAG_L
		case va > vb:
			cpu.Flags = FLAG_G
		default:
			cpu.Flags = FLAG_E
		}
	default:
		err = ErrAluOp(op)
	}

	return
}
