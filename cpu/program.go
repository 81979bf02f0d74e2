package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Statement represents a line of assembled code with its source location and generated bytes.
type Statement struct {
	LineNo  int            // Source line number.
	Address int            // Address of the first generated byte.
	Words   []string       // Source words, after equate expansion.
	Bytes   []uint8        // Generated bytes.
	Link    map[int]string // Byte index to label, resolved at link time.
}

// Program is an assembled listing.
type Program struct {
	Statements []Statement
}

// Debug locates the statement that generated an address.
type Debug struct {
	*Statement
	Index int
}

// Debug returns the statement, and index into its bytes, for an address.
func (prog *Program) Debug(address int) (dbg Debug) {
	for n, st := range prog.Statements {
		if address >= st.Address && address < st.Address+len(st.Bytes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     address - st.Address,
			}
			break
		}
	}

	return
}

// Bytes returns an iterator over the address and value of every generated byte.
func (prog *Program) Bytes() iter.Seq2[int, uint8] {
	return func(yield func(address int, value uint8) bool) {
		for _, st := range prog.Statements {
			for n, value := range st.Bytes {
				if !yield(st.Address+n, value) {
					return
				}
			}
		}
	}
}

// Binary returns the program memory image.
func (prog *Program) Binary() (bins []uint8) {
	for address, value := range prog.Bytes() {
		for len(bins) < address {
			bins = append(bins, 0)
		}
		bins = append(bins, value)
	}

	return
}

// WriteTo writes the program as an .ls8 image, one binary literal per
// line, with the source statement as a comment on its first byte.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	bw := bufio.NewWriter(w)

	var written int
	for _, st := range prog.Statements {
		for index, value := range st.Bytes {
			if index == 0 {
				written, err = fmt.Fprintf(bw, "%08b # %v\n", value, strings.Join(st.Words, " "))
			} else {
				written, err = fmt.Fprintf(bw, "%08b\n", value)
			}
			n += int64(written)
			if err != nil {
				return
			}
		}
	}

	err = bw.Flush()
	return
}
