package emulator

import (
	"errors"

	"github.com/ezrec/nibble/translate"
)

var f = translate.From

var (
	ErrCycleLimit   = errors.New(f("cycle limit exceeded"))
	ErrWatchNotBool = errors.New(f("watch expression is not a bool"))
	ErrDelayInvalid = errors.New(f("debug delay must be positive"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc  int
	Err error
}

func (err *ErrRuntime) Error() string {
	return f("pc %d %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrWatch reports a watch expression that failed to evaluate.
type ErrWatch struct {
	Expr string
	Err  error
}

func (err *ErrWatch) Error() string {
	return f("watch %q %v", err.Expr, err.Err)
}

func (err *ErrWatch) Unwrap() error {
	return err.Err
}
