package io

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Loader errors
	ErrNotBinary  = errors.New(f("not a binary literal"))
	ErrTooWide    = errors.New(f("literal wider than 8 bits"))
	ErrImageLarge = errors.New(f("image larger than memory"))

	// Channel errors
	ErrChannelClosed = errors.New(f("channel closed"))
)

// ErrLoad indicates the program image could not be loaded.
type ErrLoad struct {
	Name string
	Err  error
}

func (err *ErrLoad) Error() string {
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}

// ErrSyntax locates a malformed line in a program image.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
