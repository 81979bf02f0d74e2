package io

import (
	"bufio"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/ezrec/ls8/cpu"
)

// Rom is a program image, parsed from the .ls8 text format: one binary
// literal per line, with '#' comments and blank lines ignored.
type Rom struct {
	Name string
	Data []uint8
}

// ReadFrom replaces the image with the one parsed from r.
func (rc *Rom) ReadFrom(r io.Reader) (n int64, err error) {
	scanner := bufio.NewScanner(r)

	rc.Data = rc.Data[:0]

	var lineno int
	for scanner.Scan() {
		text := scanner.Text()
		lineno++
		n += int64(len(text)) + 1

		line, _, _ := strings.Cut(text, "#")
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var value uint64
		value, err = strconv.ParseUint(line, 2, 8)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
				err = ErrTooWide
			} else {
				err = ErrNotBinary
			}
			err = &ErrSyntax{LineNo: lineno, Line: text, Err: err}
			return
		}

		rc.Data = append(rc.Data, uint8(value))
	}

	err = scanner.Err()
	return
}

// Open reads the named image from a file system.
func (rc *Rom) Open(fsys fs.FS, name string) (err error) {
	defer func() {
		if err != nil {
			err = &ErrLoad{Name: name, Err: err}
		}
	}()

	inf, err := fsys.Open(name)
	if err != nil {
		return
	}
	defer inf.Close()

	_, err = rc.ReadFrom(inf)
	if err != nil {
		return
	}

	rc.Name = name
	return
}

// Load writes the image into memory, starting at address 0.
func (rc *Rom) Load(mem *cpu.Memory) (err error) {
	if len(rc.Data) > mem.Size() {
		err = &ErrLoad{Name: rc.Name, Err: ErrImageLarge}
		return
	}

	for address, value := range rc.Data {
		err = mem.Write(address, value)
		if err != nil {
			return
		}
	}

	return
}
