package engine

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"go.eeprom/internal/config"
	"go.eeprom/internal/eeprom"
	"go.eeprom/internal/flash"
)

var (
	ErrReadOnly    = errors.New("register is read-only")
	ErrOutOfBounds = errors.New("value outside register bounds")
)

// Database guards the store with a mutex and applies the register table on top of it.
type Database struct {
	mu      sync.Mutex
	store   *eeprom.Store
	cfg     *config.Config
	log     logrus.FieldLogger
	closers []io.Closer
}

// OpenDevice initialises the store on dev and reconciles the register table with it.
func OpenDevice(dev flash.Device, cfg *config.Config, log logrus.FieldLogger) (*Database, error) {
	store, err := eeprom.Init(dev, eeprom.Config{
		Base:       cfg.PageBase,
		PageSize:   cfg.PageSize,
		MaxRetries: cfg.MaxRetries,
		Log:        log,
	})
	if err != nil {
		return nil, err
	}

	db := &Database{
		store: store,
		cfg:   cfg,
		log:   log,
	}
	if err := db.reconcile(); err != nil {
		return nil, err
	}
	return db, nil
}

// reconcile rewrites read-only registers whose stored value differs from the configured one
// and resets registers holding values outside their bounds.
func (db *Database) reconcile() error {
	for _, r := range db.cfg.Registers {
		v, err := db.store.Get(eeprom.Key(r.Key))
		switch {
		case errors.Is(err, eeprom.ErrNotFound):
			continue
		case err != nil && !errors.Is(err, eeprom.ErrIntegrity):
			return err
		case err == nil && !r.ReadOnly && v >= r.Min && v <= r.Max:
			continue
		case err == nil && r.ReadOnly && v == r.Default:
			continue
		}

		db.log.WithFields(logrus.Fields{
			"key":     r.Key,
			"name":    r.Name,
			"stored":  v,
			"default": r.Default,
		}).Warn("restoring register default")
		if err := db.store.Put(eeprom.Key(r.Key), r.Default); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the stored value of key, or the register default when nothing is stored.
func (db *Database) Get(key uint8) (uint16, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	v, err := db.store.Get(eeprom.Key(key))
	if errors.Is(err, eeprom.ErrNotFound) {
		if r, ok := db.cfg.Register(key); ok {
			return r.Default, nil
		}
	}
	return v, err
}

// Put stores value under key after checking the register table.
func (db *Database) Put(key uint8, value uint16) error {
	if r, ok := db.cfg.Register(key); ok {
		if r.ReadOnly {
			return errors.Wrapf(ErrReadOnly, "register %d", key)
		}
		if value < r.Min || value > r.Max {
			return errors.Wrapf(ErrOutOfBounds, "register %d accepts [%d, %d], got %d", key, r.Min, r.Max, value)
		}
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	return db.store.Put(eeprom.Key(key), value)
}

// Reset writes the default of every register not marked to be preserved and returns
// the number of registers reset.
func (db *Database) Reset() (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	n := 0
	for _, r := range db.cfg.Registers {
		if r.Preserve {
			continue
		}
		if err := db.store.Put(eeprom.Key(r.Key), r.Default); err != nil {
			return n, err
		}
		n++
	}
	db.log.WithField("registers", n).Info("defaults restored")
	return n, nil
}

func (db *Database) Dump() ([]eeprom.Record, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.store.Records()
}

func (db *Database) Stats() (eeprom.Stats, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.store.Stats()
}

func (db *Database) Slots(page int) ([]eeprom.SlotInfo, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.store.Slots(page)
}

func (db *Database) Format() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.store.Format()
}

// Register returns the register definition of key.
func (db *Database) Register(key uint8) (config.Register, bool) {
	return db.cfg.Register(key)
}

func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	var first error
	for _, c := range db.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	db.closers = nil
	return first
}

func (db *Database) Log() logrus.FieldLogger {
	return db.log
}
