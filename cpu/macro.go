package cpu

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

const (
	MACRO_DEPTH = 16 // Maximum depth of macro invocations within macros.
)

// Macro represents a macro definition in the assembly language.
//
//	.macro NAME arg, ...
//	...
//	.endm
//
// Invoking NAME with one operand per argument expands the body in place,
// with each argument bound as an equate, and every '@' replaced by a
// prefix unique to the invocation for local labels.
type Macro struct {
	Name   string   // Name of the macro.
	LineNo int      // Line number of the first line of the body.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// define starts a new macro definition.
func (asm *Assembler) define(line string, lineno int) (macro *Macro, err error) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, ".macro"))

	name, args := rest, ""
	if space := strings.IndexAny(rest, " \t"); space >= 0 {
		name, args = rest[:space], strings.TrimSpace(rest[space+1:])
	}

	if !reLabel.MatchString(name) {
		err = ErrMacroSyntax
		return
	}

	_, is_macro := asm.Macro[name]
	_, is_pseudo := pseudoMap[name]
	_, is_op := LookupOp(name)
	if is_macro || is_pseudo || is_op {
		err = ErrMacroDuplicate
		return
	}

	macro = &Macro{
		Name:   name,
		LineNo: lineno + 1,
	}

	if len(args) != 0 {
		for _, arg := range strings.Split(args, ",") {
			arg = strings.TrimSpace(arg)
			if !reLabel.MatchString(arg) || slices.Contains(macro.Args, arg) {
				err = ErrMacroSyntax
				return
			}
			macro.Args = append(macro.Args, arg)
		}
	}

	asm.Macro[name] = macro
	return
}

// invoke expands a macro invocation into statements.
func (asm *Assembler) invoke(call *statement, macro *Macro, depth int) (err error) {
	if depth >= MACRO_DEPTH {
		err = ErrMacroRecursion
		return
	}

	if len(call.operands) != len(macro.Args) {
		err = ErrMacroSyntax
		return
	}

	// Labels of the invocation denote the first word of the expansion.
	if len(call.labels) != 0 {
		labels := *call
		labels.mnemonic = ""
		labels.operands = nil
		asm.statements = append(asm.statements, labels)
	}

	equate := asm.Equate
	asm.Equate = maps.Clone(equate)
	for n, arg := range macro.Args {
		asm.Equate[arg] = call.operands[n]
	}
	defer func() { asm.Equate = equate }()

	asm.invocations++
	local := fmt.Sprintf("%v_%d_", macro.Name, asm.invocations)

	for n, text := range macro.Lines {
		lineno := macro.LineNo + n

		var stmt statement
		stmt, err = asm.parseLine(strings.ReplaceAll(text, "@", local), lineno)
		if err == nil {
			stmt.macro = macro.Name
			stmt.caller = call
			err = asm.add(&stmt, depth+1)
		}
		if err != nil {
			err = &ErrMacro{Macro: macro.Name, Line: lineno, Err: err}
			return
		}
	}

	return
}
