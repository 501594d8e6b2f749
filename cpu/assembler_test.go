package cpu

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, lines ...string) (prog *Program, asm *Assembler) {
	asm = &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return
}

func TestAssemblerEncoding(t *testing.T) {
	assert := assert.New(t)

	prog, _ := assemble(t, "add $t0, $s0, $s1")

	assert.Equal([]uint16{0xCCAB}, prog.Binary())
	assert.Equal([]Opcode{
		{
			LineNo:  1,
			Address: PC_INIT,
			Words:   []string{"add", "$t0", "$s0", "$s1"},
			Codes:   []Code{0xCCAB},
		},
	}, prog.Opcodes)
}

func TestAssemblerOpcodes(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		code Code
	}){
		{"nop", 0x0000},
		{"lw $t0, $s0", 0x1CA0},
		{"sw $t1, $gp", 0x2D50},
		{"beq $t0, $t1, $t2", 0x3CDE},
		{"bne $a0, $a1, $v0", 0x4896},
		{"lui $t0, 0x12", 0x5C12},
		{"ori $t0, 255", 0x6CFF},
		{"ori $t0, -1", 0x6CFF},
		{"sgt $s0, $s1, $t3", 0x7ABF},
		{"seq $s0, $s1, $t3", 0x8ABF},
		{"nand $v0, $v1, $v1", 0x9677},
		{"sll $t0, $t0, $t1", 0xACCD},
		{"srl $t0, $t0, $t1", 0xBCCD},
		{"add $t0, $s0, $s1", 0xCCAB},
		{"sub $sp, $sp, $t0", 0xD44C},
		{"mul $ra, $a0, $a1", 0xE389},
		{"div $t3, $t2, $t1", 0xFFED},
		{"\tadd\t$t0,$s0,$s1", 0xCCAB},
	}

	for _, entry := range table {
		prog, _ := assemble(t, entry.line)
		assert.Equal([]uint16{uint16(entry.code)}, prog.Binary(), entry.line)
	}
}

func TestAssemblerRelocation(t *testing.T) {
	assert := assert.New(t)

	prog, asm := assemble(t,
		"	lw $t0, data",
		"	add $t1, $t0, $t0",
		"data: nop",
	)

	// The load expands to three words, so data moves from its
	// provisional PC_INIT+2 to PC_INIT+4.
	address, ok := asm.Symbols.Lookup("data")
	assert.True(ok)
	assert.Equal(uint16(PC_INIT+4), address)

	assert.Equal([]uint16{
		0x51B6, // lui $at, 0xb6
		0x61A2, // ori $at, 0xa2
		0x1C10, // lw $t0, $at
		0xCDCC, // add $t1, $t0, $t0
		0x0000, // nop
	}, prog.Binary())

	assert.Equal([]Symbol{{"data", PC_INIT + 4}}, prog.Symbols)
}

func TestAssemblerLabelStability(t *testing.T) {
	assert := assert.New(t)

	lines := []string{
		"start:	li $t0, 1",
		"loop:	add $t1, $t1, $t0",
		"	bne $t1, $s0, loop",
		"	sw $t1, out",
		"	j end",
		"out:",
		"	nop",
		"end:	halt",
	}

	defined := map[string]int{
		"start": 1,
		"loop":  2,
		"out":   7,
		"end":   8,
	}

	prog, asm := assemble(t, lines...)

	assert.Equal(map[string]uint16{
		"start": PC_INIT,
		"loop":  PC_INIT + 2,
		"out":   PC_INIT + 12,
		"end":   PC_INIT + 13,
	}, asm.Symbols.Map())

	// Every label denotes the first word generated by its line.
	for name, lineNo := range defined {
		address, ok := asm.Symbols.Lookup(name)
		assert.True(ok, name)
		dbg := prog.Debug(address)
		if assert.NotNil(dbg.Opcode, name) {
			assert.Equal(lineNo, dbg.LineNo, name)
			assert.Equal(0, dbg.Index, name)
		}
	}

	assert.Equal(PC_INIT+14, PC_INIT+prog.Size())
}

func TestAssemblerBranchDisplacement(t *testing.T) {
	assert := assert.New(t)

	prog, _ := assemble(t,
		"loop:	add $t1, $t1, $t0",
		"	bne $t1, $s0, loop",
		"	beq $t1, $s0, done",
		"	nop",
		"done:	nop",
	)

	// The bne word sits at PC_INIT+3; after its fetch the pc is PC_INIT+4,
	// so loop is -4 words away.
	assert.Equal([]Code{0x51FF, 0x61FC, 0x4DA1}, prog.Opcodes[1].Codes)

	// The beq word sits at PC_INIT+6; done is at PC_INIT+8.
	assert.Equal([]Code{0x5100, 0x6101, 0x3DA1}, prog.Opcodes[2].Codes)
}

func TestAssemblerAbsoluteLabel(t *testing.T) {
	assert := assert.New(t)

	prog, _ := assemble(t,
		"	sw $t0, cell",
		"cell:	nop",
	)

	assert.Equal([]uint16{0x51B6, 0x61A1, 0x2C10, 0x0000}, prog.Binary())
}

func TestAssemblerNumericAddress(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line  string
		codes []uint16
	}){
		{"lw $t0, KEYBOARD", []uint16{0x51F6, 0x619E, 0x1C10}},
		{"sw $t1, 0x1234", []uint16{0x5112, 0x6134, 0x2D10}},
		{"la $a0, VIDMEM", []uint16{0x58F6, 0x689F}},
		{"j 0", []uint16{0x5100, 0x6100, 0xC210}},
		// Numeric branch targets are absolute, like labels.
		{"beq $t0, $t1, PC_INIT", []uint16{0x51FF, 0x61FD, 0x3CD1}},
	}

	for _, entry := range table {
		prog, _ := assemble(t, entry.line)
		assert.Equal(entry.codes, prog.Binary(), entry.line)
	}
}

func TestAssemblerPseudoOps(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		lines []string
		codes []uint16
	}){
		{[]string{"halt"}, []uint16{0x5200}},
		{[]string{"move $t0, $s0"}, []uint16{0xCCA0}},
		{[]string{"li $t0, 0x1234"}, []uint16{0x5C12, 0x6C34}},
		{[]string{"li $t0, -1"}, []uint16{0x5CFF, 0x6CFF}},
		{[]string{"j $ra"}, []uint16{0xC230}},
		{[]string{"la $t0, here", "here: nop"}, []uint16{0x5CB6, 0x6CA0, 0x0000}},
		{[]string{"j here", "here: nop"}, []uint16{0x51B6, 0x61A1, 0xC210, 0x0000}},
	}

	for _, entry := range table {
		prog, _ := assemble(t, entry.lines...)
		assert.Equal(entry.codes, prog.Binary(), entry.lines)
	}
}

func TestAssemblerEquates(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "0x10")

	prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
		".equ COUNT 5",
		".equ TEMP $t2",
		"li $t0, COUNT",
		"lui $t1, $(VIDMEM >> 8)",
		"ori $t1, $(VIDMEM & 0xff)",
		"ori TEMP, 'A'",
		"ori $t0, BASE",
		"ori $t0, $(LINENO * 2)",
		"ori $t0, '\\n'",
	}, "\n")))
	assert.NoError(err)

	assert.Equal([]uint16{
		0x5C00, 0x6C05,
		0x5DF6,
		0x6D9F,
		0x6E41,
		0x6C10,
		0x6C10,
		0x6C0A,
	}, prog.Binary())
}

func TestAssemblerComments(t *testing.T) {
	assert := assert.New(t)

	prog, _ := assemble(t,
		"; full line comment",
		"// another one",
		"",
		"add $t0, $s0, $s1 // trailing",
		"ori $t0, ';' ; semicolon literal",
	)

	assert.Equal([]uint16{0xCCAB, 0x6C3B}, prog.Binary())
	assert.Equal(4, prog.Opcodes[0].LineNo)
	assert.Equal(5, prog.Opcodes[1].LineNo)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		lines  []string
		err    error
		lineNo int
	}){
		{"duplicate", []string{"a: nop", "a: nop"}, ErrLabelDuplicate, 2},
		{"missing", []string{"lw $t0, nowhere"}, ErrLabelMissing("nowhere"), 1},
		{"missing-la", []string{"nop", "la $t0, nowhere"}, ErrLabelMissing("nowhere"), 2},
		{"opcode", []string{"frob $t0"}, ErrOpcodeInvalid, 1},
		{"register", []string{"add $t9, $t0, $t1"}, ErrRegisterInvalid, 1},
		{"register-last", []string{"add $t0, $t1, $t9"}, ErrRegisterInvalid, 1},
		{"register-ri", []string{"lui 5, 5"}, ErrRegisterInvalid, 1},
		{"count-short", []string{"add $t0, $t1"}, ErrOperandCount, 1},
		{"count-long", []string{"nop $t0"}, ErrOperandCount, 1},
		{"count-empty", []string{"add $t0,, $t1"}, ErrOperandCount, 1},
		{"count-macro", []string{"li $t0"}, ErrOperandCount, 1},
		{"too-long", []string{"nop " + strings.Repeat(";", LINE_LIMIT)}, ErrLineTooLong, 1},
		{"overflow-lui", []string{"lui $t0, 256"}, ErrFieldOverflow, 1},
		{"overflow-neg", []string{"ori $t0, -129"}, ErrFieldOverflow, 1},
		{"overflow-li", []string{"li $t0, 65536"}, ErrFieldOverflow, 1},
		{"scratch", []string{"beq $at, $t0, x", "x: nop"}, ErrScratchInUse, 1},
		{"scratch-bad-register", []string{"add $at, $t1, $t9"}, ErrRegisterInvalid, 1},
		{"address-number", []string{"lw $t0, 0x1zz"}, ErrParseNumber("0x1zz"), 1},
		{"address-overflow", []string{"sw $t0, 0x10000"}, ErrFieldOverflow, 1},
		{"jump-register", []string{"j $t9"}, ErrRegisterInvalid, 1},
		{"number", []string{"lui $t0, abc"}, ErrParseNumber("abc"), 1},
		{"expression", []string{"lui $t0, $(1 +)"}, ErrParseExpression("1 +"), 1},
		{"equ-syntax", []string{".equ X"}, ErrEquateSyntax, 1},
		{"equ-duplicate", []string{".equ X 1", ".equ X 2"}, ErrEquateDuplicate, 2},
		{"equ-system", []string{".equ VIDMEM 1"}, ErrEquateDuplicate, 1},
		{"label-invalid", []string{"1bad: nop"}, ErrLabelInvalid, 1},
		{"too-large", []string{strings.Repeat("nop\n", PROGRAM_LIMIT) + "nop"}, ErrProgramTooLarge, PROGRAM_LIMIT + 1},
	}

	for _, entry := range table {
		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(strings.Join(entry.lines, "\n")))
		assert.Nil(prog, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(entry.lineNo, syntax.LineNo, entry.name)
		}
	}
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	for range 2 {
		prog, err := asm.Parse(strings.NewReader("a: j a\n.equ X 1\n"))
		assert.NoError(err)
		assert.Equal([]uint16{0x51B6, 0x619E, 0xC210}, prog.Binary())
	}
}

func TestProgramListing(t *testing.T) {
	assert := assert.New(t)

	prog, _ := assemble(t,
		"start:	add $t0, $s0, $s1",
		"	j start",
	)

	var buff bytes.Buffer
	assert.NoError(prog.Listing(&buff))

	text := buff.String()
	assert.Contains(text, "b69e: ccab  add $t0, $s0, $s1    ; 1: add $t0 $s0 $s1\n")
	assert.Contains(text, "b69f: 51b6  lui $at, 182         ; 2: j start\n")
	assert.Contains(text, "b6a1: c210  add $pc, $at, $zero  ; 2: \n")
	assert.Contains(text, "b69e: start\n")
}
