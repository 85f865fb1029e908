package flash

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var _ Device = &FileFlash{}

// FileFlash keeps a flash image in a file.
type FileFlash struct {
	file     afero.File
	pageSize int
	size     int64
}

// OpenFileFlash opens the image at path, creating an erased one of the given size when it does not exist.
func OpenFileFlash(fs afero.Fs, path string, pageSize int, size int64) (*FileFlash, error) {
	if pageSize <= 0 || size <= 0 || size%int64(pageSize) != 0 {
		return nil, errors.Errorf("invalid flash geometry: size %d is not a multiple of page size %d", size, pageSize)
	}

	f, err := fs.OpenFile(path, os.O_RDWR, 0o644)
	if errors.Is(err, os.ErrNotExist) {
		f, err = createImage(fs, path, size)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.WithStack(err)
	}
	if info.Size() != size {
		_ = f.Close()
		return nil, errors.Errorf("flash image %s has size %d, expected %d", path, info.Size(), size)
	}

	return &FileFlash{
		file:     f,
		pageSize: pageSize,
		size:     size,
	}, nil
}

func createImage(fs afero.Fs, path string, size int64) (afero.File, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(bytes.Repeat([]byte{Erased}, int(size))); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// PageSize returns the erase unit size.
func (ff *FileFlash) PageSize() int {
	return ff.pageSize
}

// Size returns the byte size of the image.
func (ff *FileFlash) Size() int64 {
	return ff.size
}

// ErasePage fills the page starting at addr with 0xFF.
func (ff *FileFlash) ErasePage(addr int64) error {
	if err := checkErase(ff.size, ff.pageSize, addr); err != nil {
		return err
	}
	return ff.write(addr, bytes.Repeat([]byte{Erased}, ff.pageSize))
}

// Program clears the bits of p which are zero.
func (ff *FileFlash) Program(addr int64, p []byte) error {
	if err := checkRange(ff.size, addr, len(p)); err != nil {
		return err
	}
	current := make([]byte, len(p))
	if err := ff.Read(addr, current); err != nil {
		return err
	}
	for i, b := range p {
		current[i] &= b
	}
	return ff.write(addr, current)
}

// Read copies image content at addr into p.
func (ff *FileFlash) Read(addr int64, p []byte) error {
	if err := checkRange(ff.size, addr, len(p)); err != nil {
		return err
	}
	if _, err := ff.file.ReadAt(p, addr); err != nil && !errors.Is(err, io.EOF) {
		return errors.WithStack(err)
	}
	return nil
}

// Close closes the image file.
func (ff *FileFlash) Close() error {
	return errors.WithStack(ff.file.Close())
}

func (ff *FileFlash) write(addr int64, p []byte) error {
	if _, err := ff.file.WriteAt(p, addr); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(ff.file.Sync())
}
