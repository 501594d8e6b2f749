package cpu

import (
	"fmt"
)

// Op is an opcode, the upper nibble of every instruction word.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_NOP  = Op(0)  // nop
	OP_LW   = Op(1)  // lw
	OP_SW   = Op(2)  // sw
	OP_BEQ  = Op(3)  // beq
	OP_BNE  = Op(4)  // bne
	OP_LUI  = Op(5)  // lui
	OP_ORI  = Op(6)  // ori
	OP_SGT  = Op(7)  // sgt
	OP_SEQ  = Op(8)  // seq
	OP_NAND = Op(9)  // nand
	OP_SLL  = Op(10) // sll
	OP_SRL  = Op(11) // srl
	OP_ADD  = Op(12) // add
	OP_SUB  = Op(13) // sub
	OP_MUL  = Op(14) // mul
	OP_DIV  = Op(15) // div

	OP_COUNT = 16
)

// Shape is the operand shape of an opcode.
type Shape int

const (
	SHAPE_NONE = Shape(iota) // No operands.
	SHAPE_RR                 // Rdst/Rsrc, Raddr
	SHAPE_RI                 // Rdst, imm8
	SHAPE_RRR                // Ra, Rb, Rc
)

// Operands returns the number of source operands required by the shape.
func (shape Shape) Operands() int {
	switch shape {
	case SHAPE_RR, SHAPE_RI:
		return 2
	case SHAPE_RRR:
		return 3
	}
	return 0
}

var opShape = [OP_COUNT]Shape{
	OP_NOP:  SHAPE_NONE,
	OP_LW:   SHAPE_RR,
	OP_SW:   SHAPE_RR,
	OP_BEQ:  SHAPE_RRR,
	OP_BNE:  SHAPE_RRR,
	OP_LUI:  SHAPE_RI,
	OP_ORI:  SHAPE_RI,
	OP_SGT:  SHAPE_RRR,
	OP_SEQ:  SHAPE_RRR,
	OP_NAND: SHAPE_RRR,
	OP_SLL:  SHAPE_RRR,
	OP_SRL:  SHAPE_RRR,
	OP_ADD:  SHAPE_RRR,
	OP_SUB:  SHAPE_RRR,
	OP_MUL:  SHAPE_RRR,
	OP_DIV:  SHAPE_RRR,
}

// Shape returns the operand shape of the opcode.
func (op Op) Shape() Shape {
	return opShape[op&0xf]
}

// IsBranch returns true for the register-relative branch opcodes.
func (op Op) IsBranch() bool {
	return op == OP_BEQ || op == OP_BNE
}

// opMap maps mnemonics to opcodes.
var opMap = func() map[string]Op {
	ops := make(map[string]Op, OP_COUNT)
	for op := range Op(OP_COUNT) {
		ops[op.String()] = op
	}
	return ops
}()

// LookupOp returns the opcode for a mnemonic.
func LookupOp(mnemonic string) (op Op, ok bool) {
	op, ok = opMap[mnemonic]
	return
}

// Code is a single packed 16-bit instruction word.
//
//	R-type: op(4) a(4) b(4) c(4)
//	I-type: op(4) a(4) imm(8)
//
// Fields wider than their slot are masked, never rejected.
type Code uint16

// MakeCodeR creates an R-type instruction.
func MakeCodeR(op Op, a, b, c Register) Code {
	return Code((uint16(op)&0xf)<<12 | (uint16(a)&0xf)<<8 | (uint16(b)&0xf)<<4 | (uint16(c) & 0xf))
}

// MakeCodeI creates an I-type instruction.
func MakeCodeI(op Op, a Register, imm uint16) Code {
	return Code((uint16(op)&0xf)<<12 | (uint16(a)&0xf)<<8 | (imm & 0xff))
}

// Op returns the opcode of the instruction word.
func (code Code) Op() Op {
	return Op((code >> 12) & 0xf)
}

// Decode returns the opcode and the three register fields.
func (code Code) Decode() (op Op, a, b, c Register) {
	op = code.Op()
	a = Register((code >> 8) & 0xf)
	b = Register((code >> 4) & 0xf)
	c = Register((code >> 0) & 0xf)
	return
}

// Imm returns the 8-bit immediate of an I-type instruction.
func (code Code) Imm() uint8 {
	return uint8(code & 0xff)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op, a, b, c := code.Decode()

	switch op.Shape() {
	case SHAPE_NONE:
		out = op.String()
	case SHAPE_RR:
		out = fmt.Sprintf("%v %v, %v", op, a, b)
	case SHAPE_RI:
		out = fmt.Sprintf("%v %v, %d", op, a, code.Imm())
	case SHAPE_RRR:
		out = fmt.Sprintf("%v %v, %v, %v", op, a, b, c)
	}

	return
}

// Instruction is a decoded, pre-encoding instruction.
type Instruction struct {
	Op      Op
	A, B, C Register
	Imm     uint16 // I-type immediate.
}

// Code encodes the instruction according to the shape of its opcode.
func (inst Instruction) Code() Code {
	if inst.Op.Shape() == SHAPE_RI {
		return MakeCodeI(inst.Op, inst.A, inst.Imm)
	}
	return MakeCodeR(inst.Op, inst.A, inst.B, inst.C)
}
