package engine

import (
	"github.com/spf13/afero"

	"go.eeprom/internal/config"
	"go.eeprom/internal/flash"
	"go.eeprom/internal/logger"
)

// Open opens the flash image named by cfg, creating an erased one when missing.
func Open(cfg *config.Config) (*Database, error) {
	log, logFile, err := logger.Open(cfg.LogDir, "eeprom", cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dev, err := flash.OpenFileFlash(afero.NewOsFs(), cfg.Image, cfg.PageSize, cfg.FlashSize)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	db, err := OpenDevice(dev, cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to open flash image")
		_ = dev.Close()
		_ = logFile.Close()
		return nil, err
	}
	db.closers = append(db.closers, dev, logFile)

	log.WithField("image", cfg.Image).Info("flash image opened")
	return db, nil
}
