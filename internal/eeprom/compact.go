package eeprom

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// compact moves the newest record of every key from the full active page to the
// other page and makes that page active.
func (s *Store) compact() error {
	src, dst := s.active, 1-s.active

	records, err := s.latest(src)
	if err != nil {
		return err
	}
	if len(records) >= s.Capacity() {
		return errors.Wrapf(ErrFull, "%d distinct keys fill all %d slots", len(records), s.Capacity())
	}

	if err := s.setStatus(dst, StatusReceiving); err != nil {
		return err
	}
	return s.transfer(src, dst)
}

// transfer copies into the receiving page dst, erases src and promotes dst.
// The copy is driven only by the content of src, so running it again after an
// interruption produces the same destination.
func (s *Store) transfer(src, dst int) error {
	records, err := s.latest(src)
	if err != nil {
		return err
	}
	if len(records) > s.Capacity() {
		return errors.Wrapf(ErrFull, "%d records do not fit into page %d", len(records), dst)
	}

	resumed, err := s.copyRecords(dst, records)
	if errors.Is(err, errDestinationDirty) {
		s.log.WithField("page", dst).Warn("receiving page holds unexpected data, restarting transfer")
		if err := s.erase(dst); err != nil {
			return err
		}
		if err := s.setStatus(dst, StatusReceiving); err != nil {
			return err
		}
		resumed, err = s.copyRecords(dst, records)
	}
	if err != nil {
		return err
	}

	if err := s.erase(src); err != nil {
		return err
	}
	if err := s.setStatus(dst, StatusActive); err != nil {
		return err
	}

	s.active = dst
	if err := s.refresh(); err != nil {
		return err
	}
	compactionsTotal.Inc()
	s.log.WithFields(logrus.Fields{
		"from":    src,
		"to":      dst,
		"records": len(records),
		"resumed": resumed,
		"free":    s.freeSlots(),
	}).Info("page transfer complete")
	return nil
}

var errDestinationDirty = errors.New("destination slot holds an unexpected record")

// copyRecords appends records to dst in order, skipping slots which already hold the
// expected record. It returns the number of skipped slots.
func (s *Store) copyRecords(dst int, records []Record) (int, error) {
	skipped := 0
	addr := s.firstSlot(dst)
	for _, r := range records {
		want := s.codec.encode(r)
		got, err := s.readSlot(addr)
		if err != nil {
			return skipped, err
		}
		switch {
		case got == want:
			skipped++
		case got.empty():
			if err := s.dev.Program(addr, want[:]); err != nil {
				return skipped, flashErr("program", addr, err)
			}
			if got, err = s.readSlot(addr); err != nil {
				return skipped, err
			}
			if got != want {
				return skipped, errors.Wrapf(ErrIntegrity, "copied key %d read back as % x", r.Key, got[:])
			}
		default:
			return skipped, errors.WithStack(errDestinationDirty)
		}
		addr += SlotSize
	}
	return skipped, nil
}
