package cpu

import (
	"fmt"
	"iter"
	"maps"
)

// Memory map. All addresses are word indices.
const (
	MEMORY_SIZE = 0x10000 // Total addressable words.

	PC_INIT  = 0xB69E // Program counter initializer (program grows upward).
	SP_INIT  = 0xB69D // Stack pointer initializer (stack grows downward).
	GP_INIT  = 0xD69E // Global data pointer initializer (grows upward).
	KEYBOARD = 0xF69E // Keyboard status/character register.
	VIDMEM   = 0xF69F // Base of video character memory (grows upward).

	VIDEO_COLS = 80                      // Video text columns.
	VIDEO_ROWS = 30                      // Video text rows.
	VIDEO_SIZE = VIDEO_COLS * VIDEO_ROWS // Visible words of video memory.

	// Video memory runs through the top word of memory, one word past
	// the visible grid.
	VIDEO_WORDS = MEMORY_SIZE - VIDMEM

	PROGRAM_LIMIT = GP_INIT - PC_INIT  // Maximum program image size in words.
	DATA_LIMIT    = KEYBOARD - GP_INIT // Maximum data image size in words.
)

var _cpu_defines = map[string]string{
	"PC_INIT":     fmt.Sprintf("%#x", PC_INIT),
	"SP_INIT":     fmt.Sprintf("%#x", SP_INIT),
	"GP_INIT":     fmt.Sprintf("%#x", GP_INIT),
	"KEYBOARD":    fmt.Sprintf("%#x", KEYBOARD),
	"VIDMEM":      fmt.Sprintf("%#x", VIDMEM),
	"VIDEO_COLS":  fmt.Sprintf("%v", VIDEO_COLS),
	"VIDEO_ROWS":  fmt.Sprintf("%v", VIDEO_ROWS),
	"VIDEO_SIZE":  fmt.Sprintf("%v", VIDEO_SIZE),
	"VIDEO_WORDS": fmt.Sprintf("%v", VIDEO_WORDS),
}

// Defines returns the memory map as assembler equates.
func Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// IsVideo returns true if the address lies in video memory, from VIDMEM
// through 0xFFFF inclusive.
func IsVideo(address uint16) bool {
	return address >= VIDMEM
}

// InProgram returns true if the address lies within a loaded program of
// size words.
func InProgram(address uint16, size int) bool {
	return address >= PC_INIT && int(address) < PC_INIT+size
}
