// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const (
	LINE_LIMIT = 80 // Maximum source line length, in bytes.
)

// Predefined system equates
var sysEquate = func() map[string]string {
	equ := maps.Collect(Defines())
	equ["LINENO"] = "0"
	return equ
}()

// statement is a normalized source line.
type statement struct {
	lineNo   int
	line     string
	labels   []string
	mnemonic string
	operands []string
	address  int // Word address of the first generated word.
	size     int // Words generated.

	macro  string     // Macro whose body holds the line, if any.
	caller *statement // Macro invocation that generated the line.
}

// wrap locates an error at the statement, and at every macro invocation
// that led to it.
func (stmt *statement) wrap(err error) error {
	for ; stmt != nil; stmt = stmt.caller {
		if stmt.caller == nil {
			err = &ErrSyntax{LineNo: stmt.lineNo, Line: stmt.line, Err: err}
		} else {
			err = &ErrMacro{Macro: stmt.macro, Line: stmt.lineNo, Err: err}
		}
	}
	return err
}

// Words returns the mnemonic and operands of the statement.
func (stmt *statement) Words() (words []string) {
	if len(stmt.mnemonic) == 0 {
		return
	}
	return append([]string{stmt.mnemonic}, stmt.operands...)
}

// Assembler is a two pass assembler for the GRISC system.
type Assembler struct {
	Verbose bool              // If set, verbosely logs the assembler actions.
	Symbols SymbolTable       // Labels of the current assembly.
	Equate  map[string]string // Map of equates.
	Macro   map[string]*Macro // Map of macros.

	predefine   map[string]string // Predefines
	statements  []statement
	invocations int // Macro invocations, for '@' local labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	asm.Symbols.Reset()
	asm.statements = asm.statements[:0]
	asm.invocations = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string]*Macro)
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	err = asm.scan(input)
	if err != nil {
		return
	}

	err = asm.resolve()
	if err != nil {
		return
	}

	prog, err = asm.generate()
	return
}

// scan normalizes the input into statements.
func (asm *Assembler) scan(input io.Reader) (err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1
		line = text

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		if len(text) > LINE_LIMIT {
			err = ErrLineTooLong
			return
		}

		line = strings.TrimSpace(stripComment(text))

		// .macro NAME arg, ... / .endm
		if words := strings.Fields(line); len(words) > 0 {
			switch words[0] {
			case ".macro":
				if macro != nil {
					err = ErrMacroNesting
					return
				}
				macro, err = asm.define(line, lineno)
				if err != nil {
					return
				}
				continue
			case ".endm":
				if macro == nil {
					err = ErrMacroLonelyEndm
					return
				}
				if len(words) != 1 {
					err = ErrMacroSyntax
					return
				}
				macro = nil
				continue
			}
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		var stmt statement
		stmt, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.add(&stmt, 0)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	return
}

// add records a statement, expanding macro invocations.
func (asm *Assembler) add(stmt *statement, depth int) (err error) {
	if macro, ok := asm.Macro[stmt.mnemonic]; ok {
		err = asm.invoke(stmt, macro, depth)
		return
	}

	if len(stmt.labels) == 0 && len(stmt.mnemonic) == 0 {
		return
	}

	asm.statements = append(asm.statements, *stmt)
	return
}

// stripComment removes '//' and ';' comments outside of character literals.
func stripComment(text string) string {
	quoted := false
	for n := 0; n < len(text); n++ {
		switch text[n] {
		case '\\':
			if quoted {
				n++
			}
		case '\'':
			quoted = !quoted
		case ';':
			if !quoted {
				return text[:n]
			}
		case '/':
			if !quoted && n+1 < len(text) && text[n+1] == '/' {
				return text[:n]
			}
		}
	}

	return text
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
)

// parseLine parses a single normalized line.
func (asm *Assembler) parseLine(line string, lineno int) (stmt statement, err error) {
	stmt.lineNo = lineno
	stmt.line = line

	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "0":
				str = "\x00"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "e":
				str = "\033"
			default:
				return word
			}
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	// .equ CONST VALUE
	if words := strings.Fields(line); len(words) > 0 && words[0] == ".equ" {
		if len(words) != 3 || !reLabel.MatchString(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		value := words[2]
		if equate, ok := asm.Equate[value]; ok {
			value = equate
		}
		asm.Equate[words[1]] = value
		return
	}

	for {
		head, rest, found := strings.Cut(line, ":")
		if !found || strings.ContainsAny(head, "\t ,$") {
			break
		}
		if !reLabel.MatchString(head) {
			err = ErrLabelInvalid
			return
		}
		stmt.labels = append(stmt.labels, head)
		line = strings.TrimSpace(rest)
	}

	if len(line) == 0 {
		return
	}

	mnemonic, rest := line, ""
	if space := strings.IndexAny(line, " \t"); space >= 0 {
		mnemonic, rest = line[:space], line[space+1:]
	}
	stmt.mnemonic = mnemonic

	rest = strings.TrimSpace(rest)
	if len(rest) == 0 {
		return
	}

	for _, word := range strings.Split(rest, ",") {
		word = strings.TrimSpace(word)
		if len(word) == 0 {
			err = ErrOperandCount
			return
		}
		if equate, ok := asm.Equate[word]; ok {
			word = equate
		}
		stmt.operands = append(stmt.operands, word)
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int64
		v, err = valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// valueOf returns the value of a numeric word.
func valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
	}
	return
}

// register returns the register named by word.
func register(word string) (reg Register, err error) {
	reg, ok := LookupRegister(word)
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// immediate parses an immediate that must fit in bits, as either a signed
// or an unsigned value.
func immediate(word string, bits int) (imm uint16, err error) {
	value, err := valueOf(word)
	if err != nil {
		return
	}

	if value < -(1<<(bits-1)) || value >= (1<<bits) {
		err = ErrFieldOverflow
		return
	}

	imm = uint16(value) & uint16((1<<bits)-1)
	return
}

// resolve is the first pass. It lays out every statement, records the
// labels, and relocates the labels as statements expand.
func (asm *Assembler) resolve() (err error) {
	var stmt *statement

	defer func() {
		if err != nil && stmt != nil {
			err = stmt.wrap(err)
		}
	}()

	// Provisional layout, one word per instruction.
	address := PC_INIT
	for n := range asm.statements {
		stmt = &asm.statements[n]
		for _, label := range stmt.labels {
			err = asm.Symbols.Define(label, uint16(address))
			if err != nil {
				return
			}
		}
		stmt.address = address
		if len(stmt.mnemonic) != 0 {
			stmt.size = 1
			address++
		}
	}

	// Expansion.
	shift := 0
	for n := range asm.statements {
		stmt = &asm.statements[n]
		stmt.address += shift
		if len(stmt.mnemonic) == 0 {
			continue
		}

		var size int
		size, err = asm.sizeOf(stmt)
		if err != nil {
			return
		}

		if size != stmt.size {
			delta := size - stmt.size
			if asm.Verbose {
				log.Printf("%v: expand %v to %d words, relocate past %04x by %d", stmt.lineNo, stmt.mnemonic, size, stmt.address, delta)
			}
			asm.Symbols.Relocate(uint16(stmt.address), delta)
			shift += delta
			stmt.size = size
		}

		if stmt.address+stmt.size-PC_INIT > PROGRAM_LIMIT {
			err = ErrProgramTooLarge
			return
		}
	}

	return
}

// isAddressOperand returns true if the last operand of a register shaped
// opcode is an address to materialize, a label or a number.
func isAddressOperand(op Op, operands []string) bool {
	switch op.Shape() {
	case SHAPE_RR, SHAPE_RRR:
		_, ok := LookupRegister(operands[len(operands)-1])
		return !ok
	}
	return false
}

// sizeOf returns the number of words a statement expands to.
func (asm *Assembler) sizeOf(stmt *statement) (size int, err error) {
	pseudo, ok := pseudoMap[stmt.mnemonic]
	if ok {
		if len(stmt.operands) != pseudo.Operands {
			err = ErrOperandCount
			return
		}
		size = pseudo.Words(stmt.operands)
		return
	}

	op, ok := LookupOp(stmt.mnemonic)
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	if len(stmt.operands) != op.Shape().Operands() {
		err = ErrOperandCount
		return
	}

	size = 1
	if isAddressOperand(op, stmt.operands) {
		size = 3
	}

	return
}

// generate is the second pass. It emits the words of every statement.
func (asm *Assembler) generate() (prog *Program, err error) {
	var stmt *statement

	defer func() {
		if err != nil && stmt != nil {
			err = stmt.wrap(err)
		}
	}()

	prog = &Program{}

	for n := range asm.statements {
		stmt = &asm.statements[n]
		if len(stmt.mnemonic) == 0 {
			continue
		}

		var insts []Instruction
		insts, err = asm.expand(stmt)
		if err != nil {
			prog = nil
			return
		}
		if len(insts) != stmt.size {
			panic(fmt.Sprintf("line %d: %v expanded to %d words, %d were reserved", stmt.lineNo, stmt.mnemonic, len(insts), stmt.size))
		}

		codes := make([]Code, len(insts))
		for i, inst := range insts {
			codes[i] = inst.Code()
		}

		prog.Opcodes = append(prog.Opcodes, Opcode{
			LineNo:  stmt.lineNo,
			Address: stmt.address,
			Words:   stmt.Words(),
			Codes:   codes,
		})
	}

	prog.Symbols = slices.Collect(asm.Symbols.All())

	return
}

// label returns the resolved address of a label.
func (asm *Assembler) label(word string) (address uint16, err error) {
	address, ok := asm.Symbols.Lookup(word)
	if !ok {
		err = ErrLabelMissing(word)
	}
	return
}

// address returns the value of an address operand, either a number or
// a label.
func (asm *Assembler) address(word string) (address uint16, err error) {
	if len(word) > 0 && (word[0] == '-' || (word[0] >= '0' && word[0] <= '9')) {
		address, err = immediate(word, 16)
		return
	}

	address, err = asm.label(word)
	return
}

// materialize loads a 16-bit value into reg.
func materialize(reg Register, value uint16) []Instruction {
	return []Instruction{
		{Op: OP_LUI, A: reg, Imm: value >> 8},
		{Op: OP_ORI, A: reg, Imm: value & 0xff},
	}
}

// expand translates a statement into its final instructions.
func (asm *Assembler) expand(stmt *statement) (insts []Instruction, err error) {
	pseudo, ok := pseudoMap[stmt.mnemonic]
	if ok {
		insts, err = pseudo.Expand(asm, stmt.address, stmt.operands)
		return
	}

	op, _ := LookupOp(stmt.mnemonic)
	words := stmt.operands

	var regs [3]Register

	switch op.Shape() {
	case SHAPE_NONE:
		insts = []Instruction{{Op: op}}
		return
	case SHAPE_RI:
		regs[0], err = register(words[0])
		if err != nil {
			return
		}
		var imm uint16
		imm, err = immediate(words[1], 8)
		if err != nil {
			return
		}
		insts = []Instruction{{Op: op, A: regs[0], Imm: imm}}
		return
	}

	last := len(words) - 1
	for n, word := range words[:last] {
		regs[n], err = register(word)
		if err != nil {
			return
		}
	}

	reg, is_reg := LookupRegister(words[last])
	if is_reg {
		regs[last] = reg
		insts = []Instruction{{Op: op, A: regs[0], B: regs[1], C: regs[2]}}
		return
	}

	if strings.HasPrefix(words[last], "$") {
		err = ErrRegisterInvalid
		return
	}

	// Address operand: materialize into the scratch register.
	for _, reg := range regs[:last] {
		if reg == REG_SCRATCH {
			err = ErrScratchInUse
			return
		}
	}

	target, err := asm.address(words[last])
	if err != nil {
		return
	}

	value := target
	if op.IsBranch() {
		// Relative to the pc after fetching the branch itself.
		value = uint16(int(target) - (stmt.address + 3))
	}

	regs[last] = REG_SCRATCH
	insts = append(materialize(REG_SCRATCH, value), Instruction{Op: op, A: regs[0], B: regs[1], C: regs[2]})

	return
}
