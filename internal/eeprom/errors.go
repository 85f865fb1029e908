package eeprom

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("no value stored for key")
	ErrFull      = errors.New("page is full and compaction cannot free a slot")
	ErrIntegrity = errors.New("record integrity check failed")
	ErrFlash     = errors.New("flash operation failed")
	ErrConfig    = errors.New("invalid configuration")
)

// FlashError reports a failed flash primitive. It matches ErrFlash and unwraps to the device error.
type FlashError struct {
	Op   string
	Addr int64
	Err  error
}

func (e *FlashError) Error() string {
	return fmt.Sprintf("flash %s at %#x: %v", e.Op, e.Addr, e.Err)
}

func (e *FlashError) Unwrap() error {
	return e.Err
}

func (e *FlashError) Is(target error) bool {
	return target == ErrFlash
}

func flashErr(op string, addr int64, err error) error {
	return errors.WithStack(&FlashError{Op: op, Addr: addr, Err: err})
}
