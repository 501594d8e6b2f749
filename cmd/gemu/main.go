// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"github.com/ezrec/grisc/cpu"
	"github.com/ezrec/grisc/emulator"
	"github.com/ezrec/grisc/io"
)

func readImage(path string, limit int) (image []uint16) {
	inf, err := os.Open(path)
	if err != nil {
		atexit.Fatalf("%v: %v", path, err)
	}
	defer inf.Close()

	image, err = io.ReadImage(inf, limit)
	if err != nil {
		atexit.Fatalf("%v: %v", path, err)
	}

	return
}

func main() {
	var compile string
	var limit int
	var dump bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble and run")
	flag.IntVar(&limit, "max", 0, "Maximum ticks to run, 0 for no limit")
	flag.BoolVar(&dump, "r", false, "Dump the registers at halt")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %v [options] [program.bin] [data.bin]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	args := flag.Args()

	// Assemble a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for name, value := range emu.Defines() {
			asm.Predefine(name, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	} else {
		if len(args) == 0 {
			flag.Usage()
			os.Exit(1)
		}
		emu.Image = readImage(args[0], cpu.PROGRAM_LIMIT)
		args = args[1:]
	}

	if len(args) > 1 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], args[1:])
	}
	if len(args) == 1 {
		emu.Data = readImage(args[0], cpu.DATA_LIMIT)
	}

	emu.Display = &io.Screen{Output: os.Stdout}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			log.Fatalf("stdin: %v", err)
		}
		atexit.Register(func() { term.Restore(fd, state) })
	}
	emu.Keyboard = io.NewKeys(os.Stdin, io.KEYS_BACKLOG)

	err := emu.Reset()
	if err != nil {
		atexit.Fatal(err)
	}

	err = emu.Run(limit)
	if err != nil {
		if dump {
			fmt.Fprint(os.Stderr, emu.Cpu.String())
		}
		atexit.Fatal(err)
	}

	if dump {
		fmt.Fprint(os.Stderr, emu.Cpu.String())
	}

	atexit.Exit(0)
}
