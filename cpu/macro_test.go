package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMacroRelocation(t *testing.T) {
	assert := assert.New(t)

	prog, asm := assemble(t,
		".macro store reg, where",
		"	sw reg, where",
		"	nop",
		".endm",
		"	store $t0, data",
		"	add $t1, $t0, $t0",
		"data:	nop",
	)

	// The invocation expands to four words, so everything after it
	// moves by three.
	address, ok := asm.Symbols.Lookup("data")
	assert.True(ok)
	assert.Equal(uint16(PC_INIT+5), address)

	assert.Equal([]uint16{
		0x51B6, // lui $at, 0xb6
		0x61A3, // ori $at, 0xa3
		0x2C10, // sw $t0, $at
		0x0000, // nop
		0xCDCC, // add $t1, $t0, $t0
		0x0000, // nop
	}, prog.Binary())

	assert.Equal(2, prog.Opcodes[0].LineNo)
	assert.Equal([]string{"sw", "$t0", "data"}, prog.Opcodes[0].Words)
}

func TestMacroLocalLabels(t *testing.T) {
	assert := assert.New(t)

	_, asm := assemble(t,
		".macro spin count",
		"@loop:	sub count, count, $t3",
		"	bne count, $zero, @loop",
		".endm",
		"	li $t3, 1",
		"	li $t0, 2",
		"first:	spin $t0",
		"	spin $t0",
	)

	assert.Equal(map[string]uint16{
		"first":       PC_INIT + 4,
		"spin_1_loop": PC_INIT + 4,
		"spin_2_loop": PC_INIT + 8,
	}, asm.Symbols.Map())
}

func TestMacroNested(t *testing.T) {
	assert := assert.New(t)

	prog, asm := assemble(t,
		".macro inc reg",
		"	add reg, reg, $t3",
		".endm",
		".macro inc2 reg",
		"	inc reg",
		"	inc reg",
		".endm",
		"	inc2 $t0",
		"	inc $t1",
	)

	assert.Equal([]uint16{0xCCCF, 0xCCCF, 0xCDDF}, prog.Binary())
	assert.Equal([]string{"reg"}, asm.Macro["inc2"].Args)
	assert.Equal(5, asm.Macro["inc2"].LineNo)

	// Arguments do not outlive the invocation.
	_, ok := asm.Equate["reg"]
	assert.False(ok)
}

func TestMacroErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		lines  []string
		err    error
		lineNo int
	}){
		{"nesting", []string{".macro a", ".macro b", ".endm", ".endm"}, ErrMacroNesting, 2},
		{"duplicate", []string{".macro a", ".endm", ".macro a", ".endm"}, ErrMacroDuplicate, 3},
		{"duplicate-op", []string{".macro add", ".endm"}, ErrMacroDuplicate, 1},
		{"duplicate-pseudo", []string{".macro li x", ".endm"}, ErrMacroDuplicate, 1},
		{"lonely-endm", []string{"nop", ".endm"}, ErrMacroLonelyEndm, 2},
		{"lonely", []string{".macro a", "nop"}, ErrMacroLonely, 2},
		{"no-name", []string{".macro", ".endm"}, ErrMacroSyntax, 1},
		{"repeated-arg", []string{".macro a x, x", ".endm"}, ErrMacroSyntax, 1},
		{"endm-extra", []string{".macro a", ".endm a"}, ErrMacroSyntax, 2},
		{"arity-short", []string{".macro a x", "nop", ".endm", "a"}, ErrMacroSyntax, 4},
		{"arity-long", []string{".macro a x", "nop", ".endm", "a 1, 2"}, ErrMacroSyntax, 4},
		{"recursion", []string{".macro a", "a", ".endm", "a"}, ErrMacroRecursion, 4},
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

func TestMacroBodyErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		body string
		err  error
	}){
		{"opcode", "	frob", ErrOpcodeInvalid},
		{"operands", "	add $t0,, $t1", ErrOperandCount},
		{"number", "	lui $t0, abc", ErrParseNumber("abc")},
		{"label", "	lw $t0, nowhere", ErrLabelMissing("nowhere")},
	}

	for _, entry := range table {
		asm := &Assembler{}
		prog, err := asm.Parse(strings.NewReader(strings.Join([]string{
			"	nop",
			".macro broken",
			"	nop",
			entry.body,
			".endm",
			"	broken",
		}, "\n")))
		assert.Nil(prog, entry.name)
		assert.ErrorIs(err, entry.err, entry.name)

		// Reported at the invocation, and at the line of the body.
		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(6, syntax.LineNo, entry.name)
		}

		var macro *ErrMacro
		if assert.True(errors.As(err, &macro), entry.name) {
			assert.Equal("broken", macro.Macro, entry.name)
			assert.Equal(4, macro.Line, entry.name)
		}
	}
}
