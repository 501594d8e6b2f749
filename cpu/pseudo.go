package cpu

import (
	"strings"
)

// Pseudo is a pseudo-instruction that expands into a number of words known
// before labels resolve. A pseudo-instruction of K words shifts every later
// address by K-1.
type Pseudo struct {
	Operands int                         // Required operand count.
	Words    func(operands []string) int // Words generated, known before labels resolve.
	Expand   func(asm *Assembler, address int, operands []string) ([]Instruction, error)
}

// pseudoMap maps pseudo-instruction mnemonics.
var pseudoMap = map[string]Pseudo{
	"halt": {Operands: 0, Words: fixedWords(1), Expand: expandHalt},
	"move": {Operands: 2, Words: fixedWords(1), Expand: expandMove},
	"li":   {Operands: 2, Words: fixedWords(2), Expand: expandLoadImmediate},
	"la":   {Operands: 2, Words: fixedWords(2), Expand: expandLoadAddress},
	"j":    {Operands: 1, Words: jumpWords, Expand: expandJump},
}

func fixedWords(words int) func([]string) int {
	return func([]string) int { return words }
}

// halt => lui $pc, 0
func expandHalt(asm *Assembler, address int, words []string) (insts []Instruction, err error) {
	insts = []Instruction{{Op: OP_LUI, A: REG_PC}}
	return
}

// move Rd, Rs => add Rd, Rs, $zero
func expandMove(asm *Assembler, address int, words []string) (insts []Instruction, err error) {
	var rd, rs Register
	rd, err = register(words[0])
	if err != nil {
		return
	}
	rs, err = register(words[1])
	if err != nil {
		return
	}
	insts = []Instruction{{Op: OP_ADD, A: rd, B: rs, C: REG_ZERO}}
	return
}

// li Rd, imm16 => lui Rd, imm16 >> 8; ori Rd, imm16 & 0xff
func expandLoadImmediate(asm *Assembler, address int, words []string) (insts []Instruction, err error) {
	rd, err := register(words[0])
	if err != nil {
		return
	}
	imm, err := immediate(words[1], 16)
	if err != nil {
		return
	}
	insts = materialize(rd, imm)
	return
}

// la Rd, label => lui Rd, label >> 8; ori Rd, label & 0xff
func expandLoadAddress(asm *Assembler, address int, words []string) (insts []Instruction, err error) {
	rd, err := register(words[0])
	if err != nil {
		return
	}
	target, err := asm.address(words[1])
	if err != nil {
		return
	}
	insts = materialize(rd, target)
	return
}

func jumpWords(words []string) int {
	if _, ok := LookupRegister(words[0]); ok {
		return 1
	}
	return 3
}

// j Rs    => add $pc, Rs, $zero
// j label => lui $at, label >> 8; ori $at, label & 0xff; add $pc, $at, $zero
func expandJump(asm *Assembler, address int, words []string) (insts []Instruction, err error) {
	if reg, ok := LookupRegister(words[0]); ok {
		insts = []Instruction{{Op: OP_ADD, A: REG_PC, B: reg, C: REG_ZERO}}
		return
	}
	if strings.HasPrefix(words[0], "$") {
		err = ErrRegisterInvalid
		return
	}
	target, err := asm.address(words[0])
	if err != nil {
		return
	}
	insts = append(materialize(REG_SCRATCH, target), Instruction{Op: OP_ADD, A: REG_PC, B: REG_SCRATCH, C: REG_ZERO})
	return
}
