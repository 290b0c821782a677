package cpu

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// newTestCpu returns a CPU loaded with codes, its console, and a record of
// its debug pauses.
func newTestCpu(codes ...Code) (cp *Cpu, out *bytes.Buffer, pauses *[]time.Duration) {
	out = &bytes.Buffer{}
	pauses = &[]time.Duration{}

	cp = NewCpu()
	cp.Output = out
	cp.Pause = func(d time.Duration) { *pauses = append(*pauses, d) }

	var mem Memory
	for n, code := range codes {
		mem[n] = WordCell(code)
	}
	cp.Load(mem)

	return
}

func runCpu(cp *Cpu, limit int) (state State, err error) {
	for range limit {
		state, err = cp.Tick()
		if state != STATE_RUNNING {
			return
		}
	}
	return
}

func lines(out *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestCpu_LdiOut(t *testing.T) {
	assert := assert.New(t)

	for operand := range uint8(16) {
		cp, out, _ := newTestCpu(
			MakeCode(OP_LDI, operand),
			MakeCode(OP_OUT, 0),
			MakeCode(OP_HLT, 0),
		)

		state, err := runCpu(cp, 10)
		assert.NoError(err)
		assert.Equal(STATE_HALTED, state)

		expected := []string{
			fmt.Sprintf("Output: %d (%v)", operand, Register(operand).Bits()),
			"Done. Halting computer...",
		}
		assert.Equal(expected, lines(out), operand)
	}
}

func TestCpu_Scenario(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		codes  []Code
		output string
		carry  bool
	}){
		{"add", []Code{0x55, 0x23, 0xe0, 0xf0}, "Output: 8 (0b1000)", false},
		{"add_carry", []Code{0x5f, 0x21, 0xe0, 0xf0}, "Output: 0 (0b0000)", true},
		{"add_carry_max", []Code{0x5f, 0x2f, 0xe0, 0xf0}, "Output: 14 (0b1110)", true},
		{"sub_borrow", []Code{0x50, 0x31, 0xe0, 0xf0}, "Output: -1 (-0b001)", true},
	}

	for _, entry := range table {
		cp, out, pauses := newTestCpu(entry.codes...)

		state, err := runCpu(cp, 10)
		assert.NoError(err, entry.name)
		assert.Equal(STATE_HALTED, state, entry.name)
		assert.Equal([]string{entry.output, "Done. Halting computer..."}, lines(out), entry.name)
		assert.Equal(entry.carry, cp.Carry, entry.name)
		assert.Equal(4, cp.Ticks, entry.name)
		assert.Empty(*pauses, entry.name)
	}
}

func TestCpu_Add(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		a       Register
		operand uint8
		result  Register
		carry   bool
		zero    bool
	}){
		{5, 3, 8, false, false},
		{0, 0, 0, false, true},
		{15, 0, 15, false, false},
		{15, 1, 0, true, false},
		{8, 8, 0, true, false},
		{15, 15, 14, true, false},
		{-1, 1, 0, false, true},
		{-5, 2, -3, false, false},
	}

	for _, entry := range table {
		cp, _, _ := newTestCpu(MakeCode(OP_ADD, entry.operand))
		cp.A = entry.a

		outcome, err := cp.Execute(MakeCode(OP_ADD, entry.operand))
		assert.NoError(err)
		assert.Equal(OUTCOME_NEXT, outcome)
		assert.Equal(entry.result, cp.A, entry)
		assert.Equal(entry.carry, cp.Carry, entry)
		assert.Equal(entry.zero, cp.Zero, entry)
	}
}

func TestCpu_Sub(t *testing.T) {
	assert := assert.New(t)

	cp, _, _ := newTestCpu()

	_, err := cp.Execute(MakeCode(OP_SUB, 1))
	assert.NoError(err)
	assert.Equal(Register(-1), cp.A)
	assert.True(cp.Carry)
	assert.False(cp.Zero)

	// No truncation, even well below zero.
	_, err = cp.Execute(MakeCode(OP_SUB, 15))
	assert.NoError(err)
	assert.Equal(Register(-16), cp.A)
	assert.True(cp.Carry)

	cp.A = 7
	_, err = cp.Execute(MakeCode(OP_SUB, 7))
	assert.NoError(err)
	assert.Equal(Register(0), cp.A)
	assert.False(cp.Carry)
	assert.True(cp.Zero)
}

func TestCpu_Jmp(t *testing.T) {
	assert := assert.New(t)

	cp, _, _ := newTestCpu(MakeCode(OP_JMP, 9))

	state, err := cp.Tick()
	assert.NoError(err)
	assert.Equal(STATE_RUNNING, state)
	assert.Equal(9, cp.Pc)
}

func TestCpu_JumpConditional(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		op    CodeOp
		carry bool
		zero  bool
		pc    int
	}){
		{"jc_taken", OP_JC, true, false, 12},
		{"jc_not_taken", OP_JC, false, true, 1},
		{"jz_taken", OP_JZ, false, true, 12},
		{"jz_not_taken", OP_JZ, true, false, 1},
	}

	for _, entry := range table {
		cp, _, _ := newTestCpu(MakeCode(entry.op, 12))
		cp.Carry = entry.carry
		cp.Zero = entry.zero

		state, err := cp.Tick()
		assert.NoError(err, entry.name)
		assert.Equal(STATE_RUNNING, state, entry.name)
		assert.Equal(entry.pc, cp.Pc, entry.name)
	}
}

func TestCpu_Sta(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		a    Register
		code Code
	}){
		{9, 0x09},
		{0, 0x00},
		{-1, 0x0f},
		{-16, 0x00},
	}

	for _, entry := range table {
		cp, _, _ := newTestCpu()
		cp.A = entry.a

		_, err := cp.Execute(MakeCode(OP_STA, 5))
		assert.NoError(err)

		cell := cp.Memory[5]
		assert.Equal(CELL_WORD, cell.Kind)
		assert.Equal(entry.code, cell.Code)
		assert.Equal(OP_NOP, cell.Code.Op())
	}
}

func TestCpu_Lda(t *testing.T) {
	assert := assert.New(t)

	// LDA 7 reads cell 1, not cell 7.
	cp, _, _ := newTestCpu(MakeCode(OP_LDA, 7), 0b1010_0011)
	cp.Memory[7] = WordCell(0b0110_0000)

	_, err := cp.Execute(cp.Memory[0].Code)
	assert.NoError(err)
	assert.Equal(Register(0b1010), cp.A)

	cp.LdaAddress = LdaOperandAddress
	_, err = cp.Execute(cp.Memory[0].Code)
	assert.NoError(err)
	assert.Equal(Register(0b0110), cp.A)
}

func TestCpu_LdaEmpty(t *testing.T) {
	assert := assert.New(t)

	cp, out, _ := newTestCpu(MakeCode(OP_LDA, 0))

	state, err := cp.Tick()
	assert.Equal(STATE_ERRORED, state)
	assert.True(errors.Is(err, ErrCellEmpty))
	assert.True(cp.Halt)
	assert.Equal([]string{"Error in line 0!", "Done. Halting computer..."}, lines(out))
}

func TestCpu_OutIgnoresCarry(t *testing.T) {
	assert := assert.New(t)

	var outputs []string
	for _, carry := range []bool{false, true} {
		cp, out, _ := newTestCpu(MakeCode(OP_OUT, 0))
		cp.A = 6
		cp.Carry = carry

		_, err := cp.Execute(MakeCode(OP_OUT, 0))
		assert.NoError(err)
		outputs = append(outputs, out.String())
	}

	assert.Equal(outputs[0], outputs[1])
}

func TestCpu_EmptyFetch(t *testing.T) {
	assert := assert.New(t)

	cp, out, pauses := newTestCpu(MakeCode(OP_NOP, 0))

	state, err := cp.Tick()
	assert.NoError(err)
	assert.Equal(STATE_RUNNING, state)
	assert.False(cp.Debug)
	assert.Equal(1, cp.Pc)

	state, err = cp.Tick()
	assert.NoError(err)
	assert.Equal(STATE_RUNNING, state)
	assert.True(cp.Debug)
	assert.False(cp.Halt)
	assert.Equal(2, cp.Pc)
	assert.Equal([]time.Duration{DEBUG_DELAY}, *pauses)
	assert.Empty(out.String())

	// Running off the end of memory keeps reading empty cells.
	cp.Pc = MEMORY_SIZE + 3
	state, err = cp.Tick()
	assert.NoError(err)
	assert.Equal(STATE_RUNNING, state)
	assert.Equal(MEMORY_SIZE+4, cp.Pc)
}

func TestCpu_InvalidOpcode(t *testing.T) {
	assert := assert.New(t)

	cp, out, _ := newTestCpu(
		MakeCode(OP_NOP, 0),
		MakeCode(OP_NOP, 0),
		0b1010_0000,
		MakeCode(OP_OUT, 0),
	)

	state, err := runCpu(cp, 10)
	assert.Equal(STATE_ERRORED, state)
	assert.True(errors.Is(err, ErrOpcodeInvalid))
	assert.True(errors.Is(err, ErrOpcode(0)))
	assert.True(cp.Halt)
	assert.Equal(2, cp.Pc)
	assert.Equal(3, cp.Ticks)
	assert.Equal([]string{
		"Invalid opcode 1010.",
		"Error in line 2!",
		"Done. Halting computer...",
	}, lines(out))

	// No further cycles execute.
	state, err = cp.Tick()
	assert.Equal(STATE_ERRORED, state)
	assert.True(errors.Is(err, ErrOpcodeInvalid))
	assert.Equal(3, cp.Ticks)
}

func TestCpu_InvalidCell(t *testing.T) {
	assert := assert.New(t)

	cp, out, _ := newTestCpu()
	cp.Memory[0] = ParseCell("0101x011")

	state, err := cp.Tick()
	assert.Equal(STATE_ERRORED, state)
	assert.True(errors.Is(err, ErrCellInvalid))
	var syntax ErrSyntax
	assert.True(errors.As(err, &syntax))
	assert.Equal("0101x011", syntax.Line)
	assert.Equal([]string{"Error in line 0!", "Done. Halting computer..."}, lines(out))
}

func TestCpu_DebugTrace(t *testing.T) {
	assert := assert.New(t)

	cp, out, pauses := newTestCpu(
		MakeCode(OP_DEBUG, 0),
		MakeCode(OP_LDI, 15),
		MakeCode(OP_ADD, 1),
		MakeCode(OP_SUB, 0),
		MakeCode(OP_DEBUG, 0),
		MakeCode(OP_HLT, 0),
	)
	cp.Delay = time.Millisecond

	state, err := runCpu(cp, 10)
	assert.NoError(err)
	assert.Equal(STATE_HALTED, state)
	assert.Equal([]string{
		"Debug is on: true",
		`Updated "A" register to 0b1111.`,
		`"A" register value + 0b0001 = 0b0000`,
		"Warning: Carry out detected in line 2.",
		`"A" register value - 0b0000 = 0b0000`,
		"Warning: Zero value detected in line 3.",
		"Debug is on: false",
		"Done. Halting computer...",
	}, lines(out))
	assert.False(cp.Carry)
	assert.False(cp.Zero)
	assert.Equal([]time.Duration{
		time.Millisecond, time.Millisecond, time.Millisecond, time.Millisecond,
	}, *pauses)
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cp, _, _ := newTestCpu(MakeCode(OP_LDI, 3), MakeCode(OP_STA, 0), MakeCode(OP_HLT, 0))

	state, err := runCpu(cp, 10)
	assert.NoError(err)
	assert.Equal(STATE_HALTED, state)
	assert.Equal(Code(0x03), cp.Memory[0].Code)

	cp.Reset()
	assert.Equal(0, cp.Pc)
	assert.Equal(Register(0), cp.A)
	assert.False(cp.Halt)
	assert.Equal(0, cp.Ticks)
	assert.Equal(MakeCode(OP_LDI, 3), cp.Memory[0].Code)
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cp, _, _ := newTestCpu()
	cp.Pc = 4
	cp.A = 5
	cp.Carry = true

	text := cp.String()
	assert.Contains(text, "   pc: 4\n")
	assert.Contains(text, "    a: 0b0101 (5)\n")
	assert.Contains(text, "   cf: true\n")
}
