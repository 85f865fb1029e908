package flash

import "github.com/pkg/errors"

var _ Device = &Faulty{}

// Faulty wraps a device and injects failures into mutating operations.
type Faulty struct {
	Device

	// PowerLossAfter is the number of erase/program calls which succeed before power is lost.
	// Negative value disables the fault.
	PowerLossAfter int
	// MangleNext is the number of upcoming programs which clear one extra bit.
	MangleNext int

	ops  int
	lost bool
}

// NewFaulty returns a wrapper which does not inject anything until configured.
func NewFaulty(dev Device) *Faulty {
	return &Faulty{Device: dev, PowerLossAfter: -1}
}

// Lost reports whether the simulated power loss has happened.
func (f *Faulty) Lost() bool {
	return f.lost
}

// Ops returns the number of mutating operations which reached the device.
func (f *Faulty) Ops() int {
	return f.ops
}

// ErasePage erases the page unless power is lost.
func (f *Faulty) ErasePage(addr int64) error {
	if err := f.tick(); err != nil {
		return err
	}
	return f.Device.ErasePage(addr)
}

// Program programs p unless power is lost, optionally damaging it.
func (f *Faulty) Program(addr int64, p []byte) error {
	if err := f.tick(); err != nil {
		return err
	}
	if f.MangleNext > 0 && len(p) > 0 {
		f.MangleNext--
		damaged := append([]byte(nil), p...)
		// Clear the lowest set bit of the last non-zero byte, so the damage survives the AND.
		for i := len(damaged) - 1; i >= 0; i-- {
			if damaged[i] != 0 {
				damaged[i] &= damaged[i] - 1
				break
			}
		}
		p = damaged
	}
	return f.Device.Program(addr, p)
}

// Read reads unless power is lost.
func (f *Faulty) Read(addr int64, p []byte) error {
	if f.lost {
		return errors.WithStack(ErrPowerLoss)
	}
	return f.Device.Read(addr, p)
}

func (f *Faulty) tick() error {
	if f.lost {
		return errors.WithStack(ErrPowerLoss)
	}
	if f.PowerLossAfter >= 0 && f.ops >= f.PowerLossAfter {
		f.lost = true
		return errors.WithStack(ErrPowerLoss)
	}
	f.ops++
	return nil
}
