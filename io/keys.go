package io

import (
	"fmt"
	"io"
	"iter"
	"maps"
)

const (
	KEYS_BACKLOG = 64 // Default pending keystrokes.
)

// Keys is a Keyboard fed from an io.Reader, typically a raw mode terminal.
// A goroutine performs the blocking reads so Poll never waits.
type Keys struct {
	keys chan int16
}

var _ Keyboard = (*Keys)(nil)

// NewKeys starts reading keystrokes from input. At most backlog keystrokes
// are held before the reader stalls.
func NewKeys(input io.Reader, backlog int) (kb *Keys) {
	if backlog <= 0 {
		backlog = KEYS_BACKLOG
	}

	kb = &Keys{
		keys: make(chan int16, backlog),
	}

	go func() {
		defer close(kb.keys)
		var one [1]byte
		for {
			_, err := input.Read(one[:])
			if err != nil {
				return
			}
			ch := one[0]
			switch ch {
			case '\r':
				// Raw mode sends CR for Enter.
				ch = '\n'
			case 0x7f:
				// DEL for Backspace.
				ch = KEY_BACKSPACE
			}
			kb.keys <- int16(ch)
		}
	}()

	return
}

// Poll returns the next keystroke, if one has arrived.
func (kb *Keys) Poll() (key int16, ok bool) {
	select {
	case key, ok = <-kb.keys:
	default:
	}
	return
}

const (
	KEY_BACKSPACE = 0x08 // Backspace, as delivered by Keys.
	KEY_ENTER     = '\n' // Enter, as delivered by Keys.
	KEY_ESCAPE    = 0x1b // Escape.
)

var _keys_defines = map[string]string{
	"KEY_BACKSPACE": fmt.Sprintf("%v", KEY_BACKSPACE),
	"KEY_ENTER":     fmt.Sprintf("%v", KEY_ENTER),
	"KEY_ESCAPE":    fmt.Sprintf("%v", KEY_ESCAPE),
}

// Defines returns the keystroke codes as assembler equates.
func Defines() iter.Seq2[string, string] {
	return maps.All(_keys_defines)
}
