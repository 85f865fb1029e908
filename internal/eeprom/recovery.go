package eeprom

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// recover resolves the pair of page headers found at startup into a single active page.
func (s *Store) recover() error {
	var status [2]PageStatus
	for page := range status {
		ps, err := s.status(page)
		if err != nil {
			return err
		}
		status[page] = ps
	}
	log := s.log.WithFields(logrus.Fields{"page0": status[0], "page1": status[1]})

	resolved := false
	for p := 0; p < 2 && !resolved; p++ {
		q := 1 - p
		var err error
		switch {
		case status[p] == StatusActive && status[q] == StatusErased:
			log.Debug("steady state")
			resolved = true
			s.active = p
			err = s.ensureErased(q)
		case status[p] == StatusActive && status[q] == StatusReceiving:
			log.Info("resuming page transfer interrupted before erase")
			resolved = true
			s.active = p
			err = s.transfer(p, q)
		case status[p] == StatusReceiving && status[q] == StatusErased:
			log.Info("promoting page whose transfer was interrupted after erase")
			resolved = true
			s.active = p
			if err = s.ensureErased(q); err == nil {
				err = s.setStatus(p, StatusActive)
			}
		}
		if err != nil {
			return err
		}
	}
	if !resolved {
		log.Warn("no consistent page state, formatting")
		if err := s.format(); err != nil {
			return err
		}
	}

	if err := s.refresh(); err != nil {
		return err
	}
	if s.freeSlots() == 0 {
		log.WithField("page", s.active).Info("active page is full, compacting")
		if err := s.compact(); err != nil && !errors.Is(err, ErrFull) {
			return err
		} else if err != nil {
			log.WithError(err).Warn("active page stays full")
		}
	}
	return nil
}

// Format erases both pages and starts over with an empty page 0.
func (s *Store) Format() error {
	if err := s.format(); err != nil {
		return err
	}
	s.log.Info("formatted")
	return s.refresh()
}

// format erases both pages before page 0 is marked active. An interruption leaves
// either a pair recovery formats again or, when page 1 was active and still holds
// its header, an erased page 0 next to it, which recovery keeps as the steady state.
func (s *Store) format() error {
	if err := s.ensureErased(0); err != nil {
		return err
	}
	if err := s.ensureErased(1); err != nil {
		return err
	}
	if err := s.setStatus(0, StatusActive); err != nil {
		return err
	}
	s.active = 0
	return nil
}
