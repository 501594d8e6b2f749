// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"log"
)

var _register_init = map[Register]uint16{
	REG_PC: PC_INIT,
	REG_SP: SP_INIT,
	REG_GP: GP_INIT,
}

// Cpu is the simulation context for the GRISC processor: the register file
// and the full word addressed memory.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register    [REGISTER_COUNT]int16 // Register file.
	Memory      [MEMORY_SIZE]int16    // Word addressed memory.
	ProgramSize int                   // Words of program loaded at PC_INIT.

	Ticks int // CPU ticks counter.

	// OnStore, if set, is called after every memory store.
	OnStore func(address uint16, value int16)
}

// NewCpu creates a new CPU in the reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	for reg := range Register(REGISTER_COUNT) {
		val := cpu.Register[reg]
		text += fmt.Sprintf("% 5s: %04X (%d)\n", reg.String(), uint16(val), val)
	}

	return
}

// Reset the CPU state.
// - Clears the registers and memory.
// - Zeros statistics counters.
// - Sets $pc, $sp and $gp to their initializers.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	clear(cpu.Memory[:])
	cpu.ProgramSize = 0
	cpu.Ticks = 0

	for reg, address := range _register_init {
		cpu.Register[reg] = int16(address)
	}
}

// Pc returns the program counter as an address.
func (cpu *Cpu) Pc() uint16 {
	return uint16(cpu.Register[REG_PC])
}

// Get returns the value of a register.
func (cpu *Cpu) Get(reg Register) int16 {
	return cpu.Register[reg&0xf]
}

// Set sets the value of a register. $zero is zero by convention only, and
// may be written.
func (cpu *Cpu) Set(reg Register, value int16) {
	cpu.Register[reg&0xf] = value
}

// Read returns the word at address.
func (cpu *Cpu) Read(address uint16) int16 {
	return cpu.Memory[address]
}

// Write stores a word at address.
func (cpu *Cpu) Write(address uint16, value int16) {
	cpu.Memory[address] = value
	if cpu.OnStore != nil {
		cpu.OnStore(address, value)
	}
}

// Load copies an image into memory starting at address. Images wrap at the
// top of the address space.
func (cpu *Cpu) Load(address uint16, image []uint16) {
	for n, word := range image {
		cpu.Memory[address+uint16(n)] = int16(word)
	}
}

// LoadProgram loads a program image at PC_INIT, and sets the program size.
func (cpu *Cpu) LoadProgram(image []uint16) (err error) {
	if len(image) > PROGRAM_LIMIT {
		err = ErrProgramTooLarge
		return
	}

	cpu.Load(PC_INIT, image)
	cpu.ProgramSize = len(image)

	return
}

// FetchCode fetches the instruction at $pc.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	pc := cpu.Pc()
	if !InProgram(pc, cpu.ProgramSize) {
		err = ErrPcEmpty
		return
	}

	code = Code(uint16(cpu.Memory[pc]))
	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)
	if err != nil {
		return
	}

	cpu.Ticks += 1

	return
}

// Execute executes a single decoded instruction located at $pc. The $pc
// is advanced before the instruction takes effect. A faulting instruction
// leaves the CPU state untouched.
func (cpu *Cpu) Execute(code Code) (err error) {
	pc := cpu.Register[REG_PC]

	defer func() {
		if err != nil {
			cpu.Register[REG_PC] = pc
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%04x: %v", uint16(pc), code)
	}

	r := &cpu.Register
	op, a, b, c := code.Decode()

	r[REG_PC] = pc + 1

	switch op {
	case OP_NOP:
		// pass
	case OP_LW:
		r[a] = cpu.Read(uint16(r[b]))
	case OP_SW:
		cpu.Write(uint16(r[b]), r[a])
	case OP_BEQ:
		if r[a] == r[b] {
			r[REG_PC] += r[c]
		}
	case OP_BNE:
		if r[a] != r[b] {
			r[REG_PC] += r[c]
		}
	case OP_LUI:
		r[a] = int16(uint16(code.Imm()) << 8)
	case OP_ORI:
		r[a] |= int16(code.Imm())
	case OP_SGT:
		r[a] = flag(r[b] > r[c])
	case OP_SEQ:
		r[a] = flag(r[b] == r[c])
	case OP_NAND:
		r[a] = ^(r[b] & r[c])
	case OP_SLL:
		r[a] = int16(uint16(r[b]) << uint16(r[c]))
	case OP_SRL:
		r[a] = int16(uint16(r[b]) >> uint16(r[c]))
	case OP_ADD:
		r[a] = r[b] + r[c]
	case OP_SUB:
		r[a] = r[b] - r[c]
	case OP_MUL:
		r[a] = r[b] * r[c]
	case OP_DIV:
		if r[c] == 0 {
			err = ErrDivideByZero
			return
		}
		r[a] = r[b] / r[c]
	}

	return
}

// flag converts a comparison into 1 or 0.
func flag(cond bool) int16 {
	if cond {
		return 1
	}
	return 0
}
