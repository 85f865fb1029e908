package eeprom

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.eeprom/internal/flash"
)

// fourSlotPage holds the header and four records.
const fourSlotPage = 5 * SlotSize

func newFlash(pageSize int) *flash.MemFlash {
	return flash.NewMemFlash(pageSize, 2)
}

func cloneFlash(mf *flash.MemFlash) *flash.MemFlash {
	c := flash.NewMemFlash(mf.PageSize(), int(mf.Size())/mf.PageSize())
	copy(c.Bytes(), mf.Bytes())
	return c
}

func open(t *testing.T, dev flash.Device) *Store {
	s, err := Init(dev, Config{PageSize: dev.PageSize()})
	require.NoError(t, err)
	return s
}

func mustPut(t *testing.T, s *Store, key Key, value uint16) {
	require.NoError(t, s.Put(key, value))
}

func requireValue(t *testing.T, s *Store, key Key, expected uint16) {
	v, err := s.Get(key)
	require.NoError(t, err)
	require.Equal(t, expected, v, "key %d", key)
}

func pageRecords(t *testing.T, s *Store, page int) []Record {
	infos, err := s.Slots(page)
	require.NoError(t, err)

	var records []Record
	for _, info := range infos {
		if !info.Empty {
			records = append(records, info.Record)
		}
	}
	return records
}

// writeOnce records every program which targets bytes that are not erased.
type writeOnce struct {
	flash.Device
	overwrites []int64
}

func (w *writeOnce) Program(addr int64, p []byte) error {
	current := make([]byte, len(p))
	if err := w.Device.Read(addr, current); err != nil {
		return err
	}
	for _, b := range current {
		if b != flash.Erased {
			w.overwrites = append(w.overwrites, addr)
			break
		}
	}
	return w.Device.Program(addr, p)
}
