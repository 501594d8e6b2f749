package io

import (
	"slices"
)

// Recorder is a Display that keeps a copy of every frame.
type Recorder struct {
	Frames [][]int16
}

var _ Display = (*Recorder)(nil)

func (rec *Recorder) Refresh(video []int16) (err error) {
	rec.Frames = append(rec.Frames, slices.Clone(video))
	return
}

// Last returns the most recent frame.
func (rec *Recorder) Last() (frame []int16) {
	if len(rec.Frames) > 0 {
		frame = rec.Frames[len(rec.Frames)-1]
	}
	return
}
