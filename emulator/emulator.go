// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"iter"

	"github.com/ezrec/grisc/cpu"
	"github.com/ezrec/grisc/internal"
	"github.com/ezrec/grisc/io"
)

// Emulator state. CPU + memory mapped devices.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Program listing, for debug and as the default image.

	Image []uint16 // Program image; Program.Binary() if nil.
	Data  []uint16 // Global data image, loaded at GP_INIT.

	Display  io.Display  // Video memory renderer, may be nil.
	Keyboard io.Keyboard // Keyboard register source, may be nil.

	KeyboardHasChar bool // Keyboard register holds an unread key.
	DisplayDirty    bool // Video memory changed since the last refresh.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Cpu.OnStore = emu.onStore

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat(cpu.Defines(), io.Defines())
}

// Reset the CPU, and load the program and data images.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	emu.KeyboardHasChar = false
	emu.DisplayDirty = false

	image := emu.Image
	if image == nil && emu.Program != nil {
		image = emu.Program.Binary()
	}

	err = emu.Cpu.LoadProgram(image)
	if err != nil {
		return
	}

	if len(emu.Data) > cpu.DATA_LIMIT {
		err = ErrDataTooLarge
		return
	}
	emu.Cpu.Load(cpu.GP_INIT, emu.Data)

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Pc())
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Video returns the video memory, through the top of memory.
func (emu *Emulator) Video() []int16 {
	return emu.Cpu.Memory[cpu.VIDMEM:]
}

// onStore tracks stores to the memory mapped devices.
func (emu *Emulator) onStore(address uint16, value int16) {
	switch {
	case cpu.IsVideo(address):
		emu.DisplayDirty = true
	case address == cpu.KEYBOARD:
		emu.KeyboardHasChar = value != 0
	}
}

// refreshKeyboard deposits the next key once the last one was consumed.
func (emu *Emulator) refreshKeyboard() {
	if emu.Cpu.Memory[cpu.KEYBOARD] == 0 && emu.Keyboard != nil {
		key, ok := emu.Keyboard.Poll()
		if ok && key != 0 {
			emu.Cpu.Memory[cpu.KEYBOARD] = key
		}
	}

	emu.KeyboardHasChar = emu.Cpu.Memory[cpu.KEYBOARD] != 0
}

// Tick performs a single fetch-decode-execute cycle of the emulator, then
// services the display and keyboard.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	address := emu.Cpu.Pc()
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Address: address, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrPcEmpty) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	if emu.DisplayDirty {
		if emu.Display != nil {
			err = emu.Display.Refresh(emu.Video())
			if err != nil {
				return
			}
		}
		emu.DisplayDirty = false
	}

	emu.refreshKeyboard()

	return
}

// Run ticks until the program halts. A limit greater than zero bounds
// the number of ticks.
func (emu *Emulator) Run(limit int) (err error) {
	for ticks := 0; limit <= 0 || ticks < limit; ticks++ {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}

	err = ErrTickLimit
	return
}
