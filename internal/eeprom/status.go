package eeprom

import "github.com/pkg/errors"

// PageStatus is the lifecycle state stored in a page header.
type PageStatus int

// Each transition programs a header which only clears bits of the previous one.
const (
	StatusErased PageStatus = iota
	StatusReceiving
	StatusActive
	StatusCorrupt
)

var (
	headerErased    = slot{0xFF, 0xFF, 0xFF, 0xFF}
	headerReceiving = slot{0xEE, 0xEE, 0xEE, 0xEE}
	headerActive    = slot{0x00, 0x00, 0x00, 0x00}
)

func (ps PageStatus) String() string {
	switch ps {
	case StatusErased:
		return "erased"
	case StatusReceiving:
		return "receiving"
	case StatusActive:
		return "active"
	default:
		return "corrupt"
	}
}

func decodeStatus(h slot) PageStatus {
	switch h {
	case headerErased:
		return StatusErased
	case headerReceiving:
		return StatusReceiving
	case headerActive:
		return StatusActive
	default:
		return StatusCorrupt
	}
}

func (s *Store) status(page int) (PageStatus, error) {
	h, err := s.readSlot(s.base(page))
	if err != nil {
		return StatusCorrupt, err
	}
	return decodeStatus(h), nil
}

func (s *Store) setStatus(page int, target PageStatus) error {
	var h slot
	switch target {
	case StatusReceiving:
		h = headerReceiving
	case StatusActive:
		h = headerActive
	default:
		return errors.Errorf("page status %s cannot be programmed", target)
	}
	if err := s.dev.Program(s.base(page), h[:]); err != nil {
		return flashErr("program header", s.base(page), err)
	}
	return nil
}
