package emulator

import (
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/nibble/cpu"
)

// Watch is a Starlark boolean expression checked after every cycle.
//
// The expression sees the machine as the predeclared names pc, a, cf, zf,
// debug and halt.
type Watch struct {
	Expr string
	Hits int // Number of cycles the expression was true.
}

// NewWatch checks that expr evaluates to a bool against a reset machine.
func NewWatch(expr string) (watch *Watch, err error) {
	watch = &Watch{Expr: expr}
	_, err = watch.Eval(cpu.NewCpu())
	if err != nil {
		watch = nil
	}

	return
}

// machineDict returns the predeclared names for a watch expression.
func machineDict(cp *cpu.Cpu) starlark.StringDict {
	return starlark.StringDict{
		"pc":    starlark.MakeInt(cp.Pc),
		"a":     starlark.MakeInt(int(cp.A)),
		"cf":    starlark.Bool(cp.Carry),
		"zf":    starlark.Bool(cp.Zero),
		"debug": starlark.Bool(cp.Debug),
		"halt":  starlark.Bool(cp.Halt),
	}
}

// Eval evaluates the expression against the machine state.
func (watch *Watch) Eval(cp *cpu.Cpu) (hit bool, err error) {
	thread := &starlark.Thread{Name: "watch"}
	opts := syntax.FileOptions{}
	value, err := starlark.EvalOptions(&opts, thread, "watch", watch.Expr, machineDict(cp))
	if err != nil {
		err = &ErrWatch{Expr: watch.Expr, Err: err}
		return
	}

	st_bool, ok := value.(starlark.Bool)
	if !ok {
		err = &ErrWatch{Expr: watch.Expr, Err: ErrWatchNotBool}
		return
	}

	hit = bool(st_bool)
	return
}
