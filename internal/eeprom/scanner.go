package eeprom

// scan returns the address of the first empty slot of the page, or the page end when it is full.
func (s *Store) scan(page int) (int64, error) {
	for addr := s.firstSlot(page); addr < s.end(page); addr += SlotSize {
		sl, err := s.readSlot(addr)
		if err != nil {
			return 0, err
		}
		if sl.empty() {
			return addr, nil
		}
	}
	return s.end(page), nil
}

func (s *Store) freeSlots() int {
	return int((s.end(s.active) - s.next) / SlotSize)
}

// refresh recomputes the append position of the active page.
func (s *Store) refresh() error {
	next, err := s.scan(s.active)
	if err != nil {
		return err
	}
	s.next = next
	freeSlotsGauge.Set(float64(s.freeSlots()))
	return nil
}

func (s *Store) fullyErased(page int) (bool, error) {
	for addr := s.base(page); addr < s.end(page); addr += SlotSize {
		sl, err := s.readSlot(addr)
		if err != nil {
			return false, err
		}
		if !sl.empty() {
			return false, nil
		}
	}
	return true, nil
}

func (s *Store) erase(page int) error {
	if err := s.dev.ErasePage(s.base(page)); err != nil {
		return flashErr("erase", s.base(page), err)
	}
	pageErasesTotal.Inc()
	return nil
}

// ensureErased erases the page unless every byte already reads as erased.
func (s *Store) ensureErased(page int) error {
	erased, err := s.fullyErased(page)
	if err != nil || erased {
		return err
	}
	return s.erase(page)
}
