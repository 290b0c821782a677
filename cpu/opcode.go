package cpu

import (
	"fmt"
)

// CodeOp is the operation selected by the high nibble of an instruction.
type CodeOp uint8

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_NOP   = CodeOp(0b0000) // NOP
	OP_LDA   = CodeOp(0b0001) // LDA
	OP_ADD   = CodeOp(0b0010) // ADD
	OP_SUB   = CodeOp(0b0011) // SUB
	OP_STA   = CodeOp(0b0100) // STA
	OP_LDI   = CodeOp(0b0101) // LDI
	OP_JMP   = CodeOp(0b0110) // JMP
	OP_JC    = CodeOp(0b0111) // JC
	OP_JZ    = CodeOp(0b1000) // JZ
	OP_DEBUG = CodeOp(0b1001) // DEBUG
	OP_OUT   = CodeOp(0b1110) // OUT
	OP_HLT   = CodeOp(0b1111) // HLT
)

// Valid returns true if the operation is part of the instruction set.
func (op CodeOp) Valid() bool {
	return op <= OP_DEBUG || op == OP_OUT || op == OP_HLT
}

// Code is a single 8-bit instruction word.
type Code uint8

// MakeCode creates an instruction word from an operation and a 4-bit operand.
func MakeCode(op CodeOp, operand uint8) Code {
	return Code((uint8(op&0xf) << 4) | (operand & 0xf))
}

// Op returns the operation from the high nibble.
func (code Code) Op() CodeOp {
	return CodeOp((uint8(code) >> 4) & 0xf)
}

// Operand returns the address or immediate from the low nibble.
func (code Code) Operand() uint8 {
	return uint8(code) & 0xf
}

// String returns the mnemonic form of the instruction.
func (code Code) String() string {
	op := code.Op()
	switch op {
	case OP_NOP, OP_LDA, OP_DEBUG, OP_OUT, OP_HLT:
		return op.String()
	}
	if !op.Valid() {
		return fmt.Sprintf("?%04b %d", uint8(op), code.Operand())
	}
	return fmt.Sprintf("%v %d", op, code.Operand())
}
