package emulator

import (
	"errors"

	"github.com/ezrec/grisc/translate"
)

var f = translate.From

var (
	ErrDataTooLarge = errors.New(f("data image too large"))
	ErrTickLimit    = errors.New(f("tick limit reached"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo  int
	Address uint16
	Err     error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (%04x) %v", err.LineNo, err.Address, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
