package cpu

import (
	"errors"

	"github.com/ezrec/nibble/translate"
)

var f = translate.From

var (
	// Load errors
	ErrProgramEmpty = errors.New(f("no program lines"))
	ErrProgramRead  = errors.New(f("program read"))

	// Decode errors
	ErrOpcodeInvalid = errors.New(f("invalid opcode"))
	ErrCellInvalid   = errors.New(f("cell is not an instruction word"))
	ErrCellEmpty     = errors.New(f("cell empty"))
)

// ErrOpcode identifies the instruction word that failed to execute.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode %08b %v", uint8(eo), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrSyntax reports a program line that could not be decoded.
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

// ErrLoad reports a program source that could not be used.
type ErrLoad struct {
	Path string
	Err  error
}

func (err *ErrLoad) Error() string {
	return f("unable to open %v: %v", err.Path, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}
