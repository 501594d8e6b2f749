package cpu

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Opcode represents a line of assembled code with its source location and
// generated instructions.
type Opcode struct {
	LineNo  int
	Address int
	Words   []string
	Codes   []Code
}

// Program is an assembled program image and its debug information.
type Program struct {
	Opcodes []Opcode
	Symbols []Symbol
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode that generated the word at address.
func (prog *Program) Debug(address uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(address) >= op.Address && int(address) < op.Address+len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(address) - op.Address,
			}
			break
		}
	}

	return
}

// Size returns the program size in words.
func (prog *Program) Size() (size int) {
	for _, op := range prog.Opcodes {
		size += len(op.Codes)
	}
	return
}

// Binary returns the program image, to be loaded at PC_INIT.
func (prog *Program) Binary() (bins []uint16) {
	bins = make([]uint16, 0, prog.Size())
	for _, code := range prog.Codes() {
		bins = append(bins, uint16(code))
	}

	return
}

// Codes iterates over every instruction word and its address.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(address uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			address := uint16(op.Address)
			for n, code := range op.Codes {
				if !yield(address+uint16(n), code) {
					return
				}
			}
		}
	}
}

// Listing writes an address, encoding, disassembly and source listing,
// followed by the symbol table.
func (prog *Program) Listing(w io.Writer) (err error) {
	for _, op := range prog.Opcodes {
		source := strings.Join(op.Words, " ")
		for n, code := range op.Codes {
			_, err = fmt.Fprintf(w, "%04x: %04x  %-20v ; %d: %v\n", op.Address+n, uint16(code), code, op.LineNo, source)
			if err != nil {
				return
			}
			source = ""
		}
	}

	for _, sym := range prog.Symbols {
		_, err = fmt.Fprintf(w, "%04x: %v\n", sym.Address, sym.Name)
		if err != nil {
			return
		}
	}

	return
}
