// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ezrec/grisc/cpu"
	"github.com/ezrec/grisc/io"
)

func main() {
	var listing bool
	var verbose bool

	asm := &cpu.Assembler{}
	for name, value := range io.Defines() {
		asm.Predefine(name, value)
	}

	flag.BoolVar(&listing, "l", false, "Print a listing and symbol table")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Func("D", "Predefine an equate, as NAME=VALUE", func(define string) error {
		name, value, ok := strings.Cut(define, "=")
		if !ok || len(name) == 0 {
			return fmt.Errorf("%q is not NAME=VALUE", define)
		}
		asm.Predefine(name, value)
		return nil
	})
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %v [options] input.s output.bin\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	input := flag.Arg(0)
	output := flag.Arg(1)

	asm.Verbose = verbose

	inf, err := os.Open(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	defer inf.Close()

	prog, err := asm.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	if listing {
		err = prog.Listing(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
	}

	ouf, err := os.Create(output)
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}

	err = io.WriteImage(ouf, prog.Binary())
	if err == nil {
		err = ouf.Close()
	}
	if err != nil {
		os.Remove(output)
		log.Fatalf("%v: %v", output, err)
	}
}
