package io

import (
	"errors"

	"github.com/ezrec/grisc/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull = errors.New(f("channel full"))

	// Image errors
	ErrImageOdd      = errors.New(f("image has an odd number of bytes"))
	ErrImageTooLarge = errors.New(f("image too large"))
)
