package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenPersistsAcrossRestarts(t *testing.T) {
	requireT := require.New(t)

	dir := t.TempDir()
	cfg := testConfig()
	cfg.Image = filepath.Join(dir, "eeprom.img")
	cfg.LogDir = filepath.Join(dir, "log")
	cfg.LogLevel = "debug"

	db, err := Open(cfg)
	requireT.NoError(err)
	requireT.NoError(db.Put(1, 99))
	requireT.NoError(db.Close())

	db, err = Open(cfg)
	requireT.NoError(err)
	v, err := db.Get(1)
	requireT.NoError(err)
	requireT.EqualValues(99, v)
	requireT.NoError(db.Close())

	requireT.FileExists(filepath.Join(dir, "log", "eeprom.log"))
}
