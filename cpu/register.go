package cpu

// Register is a register index.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_ZERO = Register(0)  // $zero
	REG_AT   = Register(1)  // $at
	REG_PC   = Register(2)  // $pc
	REG_RA   = Register(3)  // $ra
	REG_SP   = Register(4)  // $sp
	REG_GP   = Register(5)  // $gp
	REG_V0   = Register(6)  // $v0
	REG_V1   = Register(7)  // $v1
	REG_A0   = Register(8)  // $a0
	REG_A1   = Register(9)  // $a1
	REG_S0   = Register(10) // $s0
	REG_S1   = Register(11) // $s1
	REG_T0   = Register(12) // $t0
	REG_T1   = Register(13) // $t1
	REG_T2   = Register(14) // $t2
	REG_T3   = Register(15) // $t3

	REGISTER_COUNT = 16
)

// REG_SCRATCH is the register the assembler uses to materialize label
// addresses.
const REG_SCRATCH = REG_AT

// registerMap is a map of register names to indexes.
var registerMap = func() map[string]Register {
	regs := make(map[string]Register, REGISTER_COUNT)
	for reg := range Register(REGISTER_COUNT) {
		regs[reg.String()] = reg
	}
	return regs
}()

// LookupRegister returns the register named by word.
func LookupRegister(word string) (reg Register, ok bool) {
	reg, ok = registerMap[word]
	return
}
