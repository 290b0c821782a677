// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/nibble/cpu"
	"github.com/ezrec/nibble/emulator"
)

func main() {
	var verbose bool
	var delay = cpu.DEBUG_DELAY
	var limit int
	var watch string
	var ldaOperand bool
	var list bool

	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.DurationVar(&delay, "delay", delay, "Pause between cycles in debug mode (must be positive)")
	flag.IntVar(&limit, "limit", 0, "Stop after this many cycles (0 for no limit)")
	flag.StringVar(&watch, "watch", "", "Starlark expression over pc, a, cf, zf, debug, halt to log when true")
	flag.BoolVar(&ldaOperand, "lda-operand", false, "LDA loads from the operand address, not cell 1")
	flag.BoolVar(&list, "list", false, "List the program, do not execute")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [options] <program>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	path := flag.Arg(0)
	prog, err := cpu.LoadProgram(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if list {
		fmt.Print(prog.String())
		err = prog.Check()
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
		return
	}

	emu := emulator.NewEmulator()
	emu.Program = prog
	emu.Verbose = verbose
	err = emu.SetDelay(delay)
	if err != nil {
		log.Fatalf("-delay: %v", err)
	}
	if ldaOperand {
		emu.Cpu.LdaAddress = cpu.LdaOperandAddress
	}

	if len(watch) != 0 {
		err = emu.Watch(watch)
		if err != nil {
			log.Fatalf("%v: %v", path, err)
		}
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	err = emu.Run(limit)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
}
