// Package cpu implements the processor and assembler for the GRISC system.
//
// The processor is a 16-bit register machine: sixteen signed 16-bit
// registers ($pc, $sp and $gp among them), a 65536 word address space with
// memory mapped video and keyboard, and a fixed table of sixteen opcodes in
// two encodings (R-type and I-type).
//
// The assembler is a two pass assembler. The first pass lays out the
// program, records labels and relocates them as lines expand into
// multi-word sequences; the second pass encodes the final word stream.
// Pseudo-instructions and user macros (.macro/.endm) expand in the first
// pass like any other multi-word line.
package cpu
