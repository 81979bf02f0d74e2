package io

import (
	"fmt"
	"io"

	"github.com/ezrec/ls8/cpu"
)

// Tape is the printer output of the machine. Every printed value is
// written to Output as a decimal number on its own line.
type Tape struct {
	Output io.Writer

	Count int // Values printed since the last rewind.
}

var _ cpu.Output = (*Tape)(nil)

// Rewind resets the printed value count.
func (tc *Tape) Rewind() {
	tc.Count = 0
}

// Print writes a value to the output stream.
func (tc *Tape) Print(value uint8) (err error) {
	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)
	if err != nil {
		return
	}

	tc.Count++
	return
}
