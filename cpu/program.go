package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// Program is the source text of a program, one line per memory cell.
type Program struct {
	Lines []string
}

// readLine returns the first WORD_DIGITS characters of the next line from
// reader, without its terminator. The rest of the line is discarded, however
// long it is.
func readLine(reader *bufio.Reader) (line string, err error) {
	limit := WORD_DIGITS * utf8.UTFMax

	var head []byte
	started := false
	for {
		chunk, more, rerr := reader.ReadLine()
		if rerr != nil {
			if rerr == io.EOF && started {
				break
			}
			err = rerr
			return
		}
		started = true
		if keep := min(len(chunk), limit-len(head)); keep > 0 {
			head = append(head, chunk[:keep]...)
		}
		if !more {
			break
		}
	}

	runes := []rune(string(head))
	if len(runes) > WORD_DIGITS {
		runes = runes[:WORD_DIGITS]
	}
	line = string(runes)
	return
}

// ReadProgram reads up to MEMORY_SIZE lines from r. Each line is cut to its
// first eight characters; later lines are ignored.
func ReadProgram(r io.Reader) (prog *Program, err error) {
	prog = &Program{}

	reader := bufio.NewReader(r)
	for len(prog.Lines) < MEMORY_SIZE {
		var line string
		line, err = readLine(reader)
		if err == io.EOF {
			err = nil
			break
		}
		if err != nil {
			prog = nil
			err = errors.Join(ErrProgramRead, err)
			return
		}
		prog.Lines = append(prog.Lines, line)
	}

	if len(prog.Lines) == 0 {
		prog = nil
		err = ErrProgramEmpty
		return
	}

	return
}

// LoadProgram reads a program from the file at path.
func LoadProgram(path string) (prog *Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		err = &ErrLoad{Path: path, Err: err}
		return
	}
	defer inf.Close()

	prog, err = ReadProgram(inf)
	if err != nil {
		err = &ErrLoad{Path: path, Err: err}
		return
	}

	return
}

// Memory returns the memory image of the program. Cells past the end of
// the program are empty.
func (prog *Program) Memory() (mem Memory) {
	for n, line := range prog.Lines {
		if n >= len(mem) {
			break
		}
		mem[n] = ParseCell(line)
	}

	return
}

// Check returns an ErrSyntax for every line that will not decode.
func (prog *Program) Check() (err error) {
	var errs []error
	mem := prog.Memory()
	for n, line := range prog.Lines {
		_, cerr := mem[n].Decode()
		if cerr != nil {
			errs = append(errs, ErrSyntax{LineNo: n + 1, Line: line, Err: cerr})
		}
	}

	return errors.Join(errs...)
}

// String returns a listing of the program with decoded mnemonics.
func (prog *Program) String() (text string) {
	mem := prog.Memory()
	for n, cell := range mem {
		if cell.Empty() {
			continue
		}
		code, err := cell.Decode()
		var desc string
		if err != nil {
			desc = err.Error()
		} else {
			desc = code.String()
		}
		text += fmt.Sprintf("%2d: %v  %v\n", n, cell, desc)
	}

	return
}
