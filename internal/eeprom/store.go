package eeprom

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"go.eeprom/internal/flash"
)

// DefaultMaxRetries is the number of repeated appends Put makes after a failed read-back.
const DefaultMaxRetries = 3

// Config describes where the two pages live and how Put retries.
type Config struct {
	// Base is the address of page 0, page 1 follows it directly.
	Base int64
	// PageSize must equal the erase unit of the device.
	PageSize int
	// MaxRetries bounds the appends repeated after a failed read-back. Zero selects DefaultMaxRetries.
	MaxRetries int
	Log        logrus.FieldLogger
}

func (cfg Config) validate(dev flash.Device) error {
	switch {
	case cfg.PageSize != dev.PageSize():
		return errors.Wrapf(ErrConfig, "page size %d differs from device erase unit %d", cfg.PageSize, dev.PageSize())
	case cfg.PageSize%SlotSize != 0 || cfg.PageSize < 2*SlotSize:
		return errors.Wrapf(ErrConfig, "page size %d must be a multiple of %d holding at least one slot", cfg.PageSize, SlotSize)
	case cfg.Base < 0 || cfg.Base%int64(cfg.PageSize) != 0:
		return errors.Wrapf(ErrConfig, "base %#x is not page aligned", cfg.Base)
	case cfg.Base+2*int64(cfg.PageSize) > dev.Size():
		return errors.Wrapf(ErrConfig, "two pages at %#x do not fit into %d bytes of flash", cfg.Base, dev.Size())
	case cfg.MaxRetries < 0:
		return errors.Wrapf(ErrConfig, "negative retry count %d", cfg.MaxRetries)
	}
	return nil
}

// Store serves variables from the active page. It is not safe for concurrent use
// and must be the only user of its two pages.
type Store struct {
	dev        flash.Device
	log        logrus.FieldLogger
	codec      *codec
	origin     int64
	pageSize   int
	maxRetries int

	active int
	next   int64
}

// Init takes ownership of the two pages, reconciles whatever state a power loss left
// behind and returns the store serving the active page.
func Init(dev flash.Device, cfg Config) (*Store, error) {
	if err := cfg.validate(dev); err != nil {
		return nil, err
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Log = l
	}

	s := &Store{
		dev:        dev,
		log:        cfg.Log,
		codec:      newCodec(),
		origin:     cfg.Base,
		pageSize:   cfg.PageSize,
		maxRetries: cfg.MaxRetries,
	}
	if s.Capacity() <= int(NoKey) {
		s.log.WithField("capacity", s.Capacity()).
			Warn("page holds fewer slots than the key space, Put fails once every slot carries a distinct key")
	}
	if err := s.recover(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) base(page int) int64 {
	return s.origin + int64(page)*int64(s.pageSize)
}

func (s *Store) firstSlot(page int) int64 {
	return s.base(page) + SlotSize
}

func (s *Store) end(page int) int64 {
	return s.base(page) + int64(s.pageSize)
}

func (s *Store) readSlot(addr int64) (slot, error) {
	var sl slot
	if err := s.dev.Read(addr, sl[:]); err != nil {
		return sl, flashErr("read", addr, err)
	}
	return sl, nil
}

// Capacity is the number of record slots on one page.
func (s *Store) Capacity() int {
	return s.pageSize/SlotSize - 1
}

// ActivePage returns the index (0 or 1) of the page serving reads and writes.
func (s *Store) ActivePage() int {
	return s.active
}

// FreeSlots returns the number of unwritten slots left on the active page.
func (s *Store) FreeSlots() int {
	return s.freeSlots()
}

// Get returns the most recently committed value of key.
// A value whose checksum does not verify is returned together with ErrIntegrity.
// Records, Stats and compaction ignore such a record and fall back to the older
// intact value of the key, so after the next compaction Get returns that value.
func (s *Store) Get(key Key) (uint16, error) {
	if key == NoKey {
		getsTotal.WithLabelValues("miss").Inc()
		return 0, errors.WithStack(ErrNotFound)
	}
	for addr := s.next - SlotSize; addr >= s.firstSlot(s.active); addr -= SlotSize {
		sl, err := s.readSlot(addr)
		if err != nil {
			return 0, err
		}
		r, ok := s.codec.decode(sl)
		if r.Key != key {
			continue
		}
		if !ok {
			getsTotal.WithLabelValues("corrupt").Inc()
			return r.Value, errors.Wrapf(ErrIntegrity, "key %d at %#x", key, addr)
		}
		getsTotal.WithLabelValues("hit").Inc()
		return r.Value, nil
	}
	getsTotal.WithLabelValues("miss").Inc()
	return 0, errors.WithStack(ErrNotFound)
}

// Put commits value under key. Writing the value already stored is a no-op.
func (s *Store) Put(key Key, value uint16) error {
	if key == NoKey {
		putsTotal.WithLabelValues("unchanged").Inc()
		return nil
	}

	old, err := s.Get(key)
	switch {
	case err == nil && old == value:
		putsTotal.WithLabelValues("unchanged").Inc()
		return nil
	case err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrIntegrity):
		putsTotal.WithLabelValues("failed").Inc()
		return err
	}

	if err := s.append(Record{Key: key, Value: value}); err != nil {
		putsTotal.WithLabelValues("failed").Inc()
		return err
	}
	putsTotal.WithLabelValues("written").Inc()
	return nil
}

// append writes r to the next free slot and verifies it by reading it back.
// Every failed attempt consumes its slot, the retry goes to the next one.
func (s *Store) append(r Record) error {
	want := s.codec.encode(r)
	for attempt := 0; ; attempt++ {
		if s.freeSlots() == 0 {
			if err := s.compact(); err != nil {
				return err
			}
		}

		addr := s.next
		if err := s.dev.Program(addr, want[:]); err != nil {
			return flashErr("program", addr, err)
		}
		got, err := s.readSlot(addr)
		if err != nil {
			return err
		}
		if got == want {
			s.next += SlotSize
			freeSlotsGauge.Set(float64(s.freeSlots()))
			return nil
		}

		// The damaged slot stays consumed.
		if err := s.refresh(); err != nil {
			return err
		}
		if attempt == s.maxRetries {
			return errors.Wrapf(ErrIntegrity, "key %d read back as % x after %d attempts", r.Key, got[:], attempt+1)
		}
		writeRetriesTotal.Inc()
		s.log.WithFields(logrus.Fields{
			"key":     r.Key,
			"addr":    addr,
			"attempt": attempt + 1,
		}).Warn("record read back differs, retrying on next slot")
	}
}

// latest scans the page backward and returns the newest intact record of every key,
// newest first. A record failing its checksum does not shadow older ones.
func (s *Store) latest(page int) ([]Record, error) {
	next, err := s.scan(page)
	if err != nil {
		return nil, err
	}

	var seen [256]bool
	var records []Record
	for addr := next - SlotSize; addr >= s.firstSlot(page); addr -= SlotSize {
		sl, err := s.readSlot(addr)
		if err != nil {
			return nil, err
		}
		r, ok := s.codec.decode(sl)
		if !ok || seen[r.Key] {
			continue
		}
		seen[r.Key] = true
		records = append(records, r)
	}
	return records, nil
}

// Records returns the newest intact value of every stored key in ascending key order.
// A key whose only records fail their checksum is left out.
func (s *Store) Records() ([]Record, error) {
	records, err := s.latest(s.active)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key < records[j].Key
	})
	return records, nil
}

// SlotInfo describes one slot of a page.
type SlotInfo struct {
	Addr   int64
	Empty  bool
	Valid  bool
	Record Record
}

// Slots lists every slot of the page with the given index.
func (s *Store) Slots(page int) ([]SlotInfo, error) {
	if page != 0 && page != 1 {
		return nil, errors.Errorf("page index %d out of range", page)
	}
	infos := make([]SlotInfo, 0, s.Capacity())
	for addr := s.firstSlot(page); addr < s.end(page); addr += SlotSize {
		sl, err := s.readSlot(addr)
		if err != nil {
			return nil, err
		}
		r, ok := s.codec.decode(sl)
		infos = append(infos, SlotInfo{
			Addr:   addr,
			Empty:  sl.empty(),
			Valid:  ok,
			Record: r,
		})
	}
	return infos, nil
}

// Stats summarises the state of both pages.
type Stats struct {
	ActivePage int
	Status     [2]PageStatus
	Capacity   int
	UsedSlots  int
	FreeSlots  int
	Keys       int
	PageSize   int
	Base       int64
}

// Stats reads both page headers and counts the live keys.
func (s *Store) Stats() (Stats, error) {
	st := Stats{
		ActivePage: s.active,
		Capacity:   s.Capacity(),
		FreeSlots:  s.freeSlots(),
		PageSize:   s.pageSize,
		Base:       s.origin,
	}
	st.UsedSlots = st.Capacity - st.FreeSlots
	for page := range st.Status {
		ps, err := s.status(page)
		if err != nil {
			return Stats{}, err
		}
		st.Status[page] = ps
	}
	records, err := s.latest(s.active)
	if err != nil {
		return Stats{}, err
	}
	st.Keys = len(records)
	return st, nil
}
