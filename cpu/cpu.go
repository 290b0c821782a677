// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/ezrec/nibble/translate"
)

// DEBUG_DELAY is the pause between cycles while debug mode is on.
const DEBUG_DELAY = 3 * time.Second

// State is the run state of the machine after a cycle.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
	STATE_ERRORED = State(2) // errored
)

// Outcome is the effect of an executed instruction on the program counter.
type Outcome int

const (
	OUTCOME_NEXT = Outcome(0) // Advance to the next cell.
	OUTCOME_JUMP = Outcome(1) // PC was overwritten by a taken jump.
	OUTCOME_HALT = Outcome(2) // Halt was requested.
)

// AddressSelector picks the memory cell LDA loads from.
type AddressSelector func(code Code) int

// LdaOpcodeAddress addresses memory with the opcode nibble of the LDA
// instruction itself, so LDA always reads cell 1. This is the machine's
// documented behavior.
func LdaOpcodeAddress(code Code) int {
	return int(code.Op())
}

// LdaOperandAddress addresses memory with the operand nibble.
func LdaOperandAddress(code Code) int {
	return int(code.Operand())
}

// Cpu is the simulation context for the nibble machine.
type Cpu struct {
	Verbose bool      // Set to enable verbose logging.
	Output  io.Writer // Console for program output, traces and warnings.

	Delay      time.Duration         // Debug mode pause between cycles.
	Pause      func(d time.Duration) // Pause implementation; time.Sleep if nil.
	LdaAddress AddressSelector       // LDA address mode; LdaOpcodeAddress if nil.

	Memory Memory   // Memory cells.
	Pc     int      // Program counter.
	A      Register // Accumulator.

	Carry bool // CF
	Zero  bool // ZF
	Halt  bool // Halted, by HLT or a decode error.
	Debug bool // Debug mode.

	Ticks int // Cycles since reset.

	image Memory // Memory as loaded, restored by Reset.
	fault error  // Decode error that halted the machine.
}

// NewCpu creates a new CPU writing to standard output.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Output:     os.Stdout,
		Delay:      DEBUG_DELAY,
		Pause:      time.Sleep,
		LdaAddress: LdaOpcodeAddress,
	}

	return
}

// Load installs a memory image and resets the CPU.
func (cpu *Cpu) Load(mem Memory) {
	cpu.image = mem
	cpu.Reset()
}

// Reset the CPU state.
// - Restores memory to the loaded image.
// - Clears PC, A and all flags.
// - Zeros the tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory = cpu.image
	cpu.Pc = 0
	cpu.A = 0
	cpu.Carry = false
	cpu.Zero = false
	cpu.Halt = false
	cpu.Debug = false
	cpu.Ticks = 0
	cpu.fault = nil
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "a", "cf", "zf", "halt", "debug", "ticks"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%d", cpu.Pc)
		case "a":
			strval = fmt.Sprintf("%v (%d)", cpu.A.Bits(), int(cpu.A))
		case "cf":
			strval = fmt.Sprintf("%v", cpu.Carry)
		case "zf":
			strval = fmt.Sprintf("%v", cpu.Zero)
		case "halt":
			strval = fmt.Sprintf("%v", cpu.Halt)
		case "debug":
			strval = fmt.Sprintf("%v", cpu.Debug)
		case "ticks":
			strval = fmt.Sprintf("%d", cpu.Ticks)
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// report writes one translated console line.
func (cpu *Cpu) report(format string, args ...any) {
	if cpu.Output == nil {
		return
	}
	translate.Fprintln(cpu.Output, format, args...)
}

// Tick runs a single fetch, decode, execute and post-cycle step.
//
// A decode error halts the machine; Tick then returns STATE_ERRORED along
// with the error. Once halted, further ticks do nothing.
func (cpu *Cpu) Tick() (state State, err error) {
	if cpu.Halt {
		state = STATE_HALTED
		if cpu.fault != nil {
			state = STATE_ERRORED
			err = cpu.fault
		}
		return
	}

	outcome := OUTCOME_NEXT

	cell := cpu.Memory.Fetch(cpu.Pc)
	if cell.Empty() {
		// Running into an unloaded cell turns on debug mode.
		cpu.Debug = true
	} else {
		var code Code
		code, err = cell.Decode()
		if err != nil {
			err = ErrSyntax{LineNo: cpu.Pc, Line: cell.Text, Err: err}
		} else {
			outcome, err = cpu.Execute(code)
		}
		if err != nil {
			cpu.report("Error in line %d!", cpu.Pc)
			cpu.Halt = true
			cpu.fault = err
		}
	}

	cpu.Ticks++

	if cpu.Debug {
		pause := cpu.Pause
		if pause == nil {
			pause = time.Sleep
		}
		pause(cpu.Delay)
	}

	if cpu.Debug && cpu.Carry {
		cpu.report("Warning: Carry out detected in line %d.", cpu.Pc)
		cpu.Carry = false
	} else if cpu.Debug && cpu.Zero {
		cpu.report("Warning: Zero value detected in line %d.", cpu.Pc)
		cpu.Zero = false
	}

	if cpu.Halt {
		cpu.report("Done. Halting computer...")
		state = STATE_HALTED
		if cpu.fault != nil {
			state = STATE_ERRORED
			err = cpu.fault
		}
		return
	}

	if outcome != OUTCOME_JUMP {
		cpu.Pc++
	}

	state = STATE_RUNNING
	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code) (outcome Outcome, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%02d: %08b %v", cpu.Pc, uint8(code), code)
	}

	operand := code.Operand()

	switch code.Op() {
	case OP_NOP:
		// pass
	case OP_LDA:
		addr := LdaOpcodeAddress
		if cpu.LdaAddress != nil {
			addr = cpu.LdaAddress
		}
		var src Code
		src, err = cpu.Memory.Fetch(addr(code)).Decode()
		if err != nil {
			return
		}
		cpu.A = Register(src.Op())
	case OP_ADD:
		cpu.A, cpu.Carry, cpu.Zero = cpu.A.Add(operand)
		if cpu.Debug {
			cpu.report(`"A" register value + %v = %v`, Register(operand).Bits(), cpu.A.Bits())
		}
	case OP_SUB:
		cpu.A, cpu.Carry, cpu.Zero = cpu.A.Sub(operand)
		if cpu.Debug {
			cpu.report(`"A" register value - %v = %v`, Register(operand).Bits(), cpu.A.Bits())
		}
	case OP_STA:
		cpu.Memory.Store(int(operand), WordCell(MakeCode(OP_NOP, cpu.A.Low4())))
	case OP_LDI:
		cpu.A = Register(operand)
		if cpu.Debug {
			cpu.report(`Updated "A" register to %v.`, cpu.A.Bits())
		}
	case OP_JMP:
		cpu.Pc = int(operand)
		outcome = OUTCOME_JUMP
	case OP_JC:
		if cpu.Carry {
			cpu.Pc = int(operand)
			outcome = OUTCOME_JUMP
		}
	case OP_JZ:
		if cpu.Zero {
			cpu.Pc = int(operand)
			outcome = OUTCOME_JUMP
		}
	case OP_DEBUG:
		cpu.Debug = !cpu.Debug
		cpu.report("Debug is on: %v", cpu.Debug)
	case OP_OUT:
		// The carry flag has no effect on output.
		cpu.report("Output: %d (%v)", int(cpu.A), cpu.A.Bits())
	case OP_HLT:
		cpu.Halt = true
		outcome = OUTCOME_HALT
	default:
		cpu.report("Invalid opcode %04b.", uint8(code.Op()))
		err = ErrOpcodeInvalid
		return
	}

	return
}
