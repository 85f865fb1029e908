package flash

import "github.com/pkg/errors"

// Erased is the value every byte holds after a page erase.
const Erased = 0xFF

// Device is the interface required from the flash driver.
//
// Program may only clear bits: the stored byte becomes the bitwise AND of its
// current content and the programmed byte. Only ErasePage sets bits back to one.
type Device interface {
	PageSize() int
	Size() int64
	ErasePage(addr int64) error
	Program(addr int64, p []byte) error
	Read(addr int64, p []byte) error
}

var (
	ErrUnaligned  = errors.New("address is not aligned to a page boundary")
	ErrOutOfRange = errors.New("access outside of the flash region")
	ErrPowerLoss  = errors.New("simulated power loss")
)

func checkRange(size, addr int64, n int) error {
	if addr < 0 || n < 0 || addr+int64(n) > size {
		return errors.Wrapf(ErrOutOfRange, "addr=%#x len=%d size=%d", addr, n, size)
	}
	return nil
}

func checkErase(size int64, pageSize int, addr int64) error {
	if addr%int64(pageSize) != 0 {
		return errors.Wrapf(ErrUnaligned, "addr=%#x page size=%d", addr, pageSize)
	}
	return checkRange(size, addr, pageSize)
}
