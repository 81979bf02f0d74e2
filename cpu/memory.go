package cpu

const (
	MEMORY_SIZE = 256 // Reference memory capacity, in bytes.
)

// Memory is the flat byte addressable RAM of the LS-8.
type Memory struct {
	Data []uint8
}

// NewMemory creates a zeroed memory of the given capacity.
func NewMemory(size int) *Memory {
	return &Memory{Data: make([]uint8, size)}
}

// Size returns the capacity of the memory.
func (mem *Memory) Size() int {
	return len(mem.Data)
}

// Read the byte at an address.
func (mem *Memory) Read(address int) (value uint8, err error) {
	if address < 0 || address >= len(mem.Data) {
		err = ErrAddress(address)
		return
	}

	value = mem.Data[address]
	return
}

// Write a byte to an address.
func (mem *Memory) Write(address int, value uint8) (err error) {
	if address < 0 || address >= len(mem.Data) {
		err = ErrAddress(address)
		return
	}

	mem.Data[address] = value
	return
}

// Reset zeros the memory.
func (mem *Memory) Reset() {
	clear(mem.Data)
}
