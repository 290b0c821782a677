// Package cpu implements the nibble accumulator machine.
//
// The machine has sixteen 8-bit memory cells, a program counter (PC), a
// single accumulator (A) and four flags: carry, zero, halt and debug. Each
// instruction word carries a 4-bit opcode in its high nibble and a 4-bit
// address or immediate operand in its low nibble.
//
// Programs are text, one instruction per line, written as eight binary
// digits. ReadProgram and LoadProgram turn such text into a Memory image.
package cpu
