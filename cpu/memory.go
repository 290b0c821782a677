package cpu

import (
	"fmt"
	"strconv"
)

const (
	MEMORY_SIZE = 16 // Number of memory cells.
	WORD_DIGITS = 8  // Binary digits in a program line.
)

// CellKind is the content type of a memory cell.
type CellKind int

const (
	CELL_EMPTY   = CellKind(0) // Never loaded.
	CELL_WORD    = CellKind(1) // Holds an instruction word.
	CELL_INVALID = CellKind(2) // Loaded with text that is not a word.
)

// Cell is a single memory location.
type Cell struct {
	Kind CellKind
	Code Code   // Valid for CELL_WORD
	Text string // Source text for CELL_INVALID
}

// WordCell returns a cell holding code.
func WordCell(code Code) Cell {
	return Cell{Kind: CELL_WORD, Code: code}
}

// ParseCell converts a program line into a cell. Anything other than
// exactly eight binary digits is kept as an invalid cell, which only fails
// once it is decoded.
func ParseCell(text string) (cell Cell) {
	if len(text) == WORD_DIGITS {
		value, err := strconv.ParseUint(text, 2, WORD_DIGITS)
		if err == nil {
			cell = WordCell(Code(value))
			return
		}
	}

	cell = Cell{Kind: CELL_INVALID, Text: text}
	return
}

// Empty returns true if the cell was never loaded.
func (cell Cell) Empty() bool {
	return cell.Kind == CELL_EMPTY
}

// Decode returns the instruction word held by the cell.
func (cell Cell) Decode() (code Code, err error) {
	switch cell.Kind {
	case CELL_WORD:
		code = cell.Code
	case CELL_EMPTY:
		err = ErrCellEmpty
	default:
		err = ErrCellInvalid
	}
	return
}

// String returns the cell contents as they would appear in a program.
func (cell Cell) String() string {
	switch cell.Kind {
	case CELL_WORD:
		return fmt.Sprintf("%08b", uint8(cell.Code))
	case CELL_INVALID:
		return strconv.Quote(cell.Text)
	}
	return "--------"
}

// Memory is the machine's cell array.
type Memory [MEMORY_SIZE]Cell

// Fetch returns the cell at addr. Addresses outside memory read as empty.
func (mem *Memory) Fetch(addr int) (cell Cell) {
	if addr < 0 || addr >= len(mem) {
		return
	}
	return mem[addr]
}

// Store replaces the cell at addr. Addresses outside memory are ignored.
func (mem *Memory) Store(addr int, cell Cell) {
	if addr < 0 || addr >= len(mem) {
		return
	}
	mem[addr] = cell
}
