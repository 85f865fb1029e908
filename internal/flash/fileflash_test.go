package flash

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestFileFlashCreatesErasedImage(t *testing.T) {
	requireT := require.New(t)

	fs := afero.NewMemMapFs()
	ff, err := OpenFileFlash(fs, "/eeprom.img", 64, 128)
	requireT.NoError(err)

	p := make([]byte, 128)
	requireT.NoError(ff.Read(0, p))
	for _, b := range p {
		requireT.EqualValues(Erased, b)
	}
	requireT.NoError(ff.Close())

	info, err := fs.Stat("/eeprom.img")
	requireT.NoError(err)
	requireT.EqualValues(128, info.Size())
}

func TestFileFlashPersists(t *testing.T) {
	requireT := require.New(t)

	fs := afero.NewMemMapFs()
	ff, err := OpenFileFlash(fs, "/eeprom.img", 64, 128)
	requireT.NoError(err)
	requireT.NoError(ff.Program(66, []byte{0xF0, 0x0F}))
	requireT.NoError(ff.Program(66, []byte{0x3C, 0xFF}))
	requireT.NoError(ff.Close())

	ff, err = OpenFileFlash(fs, "/eeprom.img", 64, 128)
	requireT.NoError(err)

	p := make([]byte, 2)
	requireT.NoError(ff.Read(66, p))
	requireT.Equal([]byte{0x30, 0x0F}, p)

	requireT.NoError(ff.ErasePage(64))
	requireT.NoError(ff.Read(66, p))
	requireT.Equal([]byte{0xFF, 0xFF}, p)
	requireT.ErrorIs(ff.ErasePage(10), ErrUnaligned)
}

func TestFileFlashRejectsWrongSize(t *testing.T) {
	requireT := require.New(t)

	fs := afero.NewMemMapFs()
	ff, err := OpenFileFlash(fs, "/eeprom.img", 64, 128)
	requireT.NoError(err)
	requireT.NoError(ff.Close())

	_, err = OpenFileFlash(fs, "/eeprom.img", 64, 256)
	requireT.Error(err)

	_, err = OpenFileFlash(fs, "/other.img", 64, 100)
	requireT.Error(err)
}
