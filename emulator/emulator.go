// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"log"
	"time"

	"github.com/ezrec/nibble/cpu"
	"github.com/ezrec/nibble/translate"
)

// Emulator state. CPU + program + watch expressions.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the loaded program.

	Watches []*Watch // Expressions checked after every cycle.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Watch adds a watch expression.
func (emu *Emulator) Watch(expr string) (err error) {
	watch, err := NewWatch(expr)
	if err != nil {
		return
	}

	emu.Watches = append(emu.Watches, watch)
	return
}

// SetDelay sets the debug mode pause between cycles.
func (emu *Emulator) SetDelay(delay time.Duration) (err error) {
	if delay <= 0 {
		err = ErrDelayInvalid
		return
	}

	emu.Cpu.Delay = delay
	return
}

// Reset loads the program into memory and resets the CPU.
func (emu *Emulator) Reset() (err error) {
	if emu.Program == nil || len(emu.Program.Lines) == 0 {
		err = cpu.ErrProgramEmpty
		return
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Load(emu.Program.Memory())

	for _, watch := range emu.Watches {
		watch.Hits = 0
	}

	if emu.Cpu.Output != nil {
		translate.Fprintln(emu.Cpu.Output, "Starting computer...")
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() int {
	return emu.Cpu.Pc
}

// Code returns the instruction at the program counter, if any.
func (emu *Emulator) Code() (code cpu.Code, ok bool) {
	code, err := emu.Cpu.Memory.Fetch(emu.Cpu.Pc).Decode()
	ok = err == nil
	return
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc

	state, err := emu.Cpu.Tick()
	if err != nil {
		err = &ErrRuntime{Pc: pc, Err: err}
		done = true
		return
	}

	for _, watch := range emu.Watches {
		var hit bool
		hit, err = watch.Eval(emu.Cpu)
		if err != nil {
			err = &ErrRuntime{Pc: pc, Err: err}
			done = true
			return
		}
		if hit {
			watch.Hits++
			log.Printf("watch %v: pc %d\n%v", watch.Expr, pc, emu.Cpu.String())
		}
	}

	done = state != cpu.STATE_RUNNING

	return
}

// Run ticks the emulator until it halts. A positive limit bounds the
// number of cycles.
func (emu *Emulator) Run(limit int) (err error) {
	for done := false; !done; {
		if limit > 0 && emu.Cpu.Ticks >= limit {
			err = &ErrRuntime{Pc: emu.Cpu.Pc, Err: ErrCycleLimit}
			return
		}
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
