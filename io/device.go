// Package io provides the memory mapped device capabilities for the GRISC
// emulator: a text Display attached to video memory, a Keyboard attached to
// the keyboard register, and the flat binary image format.
package io

// Display renders video memory.
type Display interface {
	// Refresh renders a complete frame of video memory. The frame is only
	// valid for the duration of the call.
	Refresh(video []int16) error
}

// Keyboard is a source of keystrokes. Poll never blocks.
type Keyboard interface {
	// Poll returns the next available key, if any.
	Poll() (key int16, ok bool)
}
