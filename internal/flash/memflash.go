package flash

var _ Device = &MemFlash{}

// MemFlash simulates NOR flash in memory.
type MemFlash struct {
	pageSize int
	data     []byte
	erases   []int
}

// NewMemFlash returns erased in-memory flash of nPages pages.
func NewMemFlash(pageSize, nPages int) *MemFlash {
	data := make([]byte, pageSize*nPages)
	for i := range data {
		data[i] = Erased
	}
	return &MemFlash{
		pageSize: pageSize,
		data:     data,
		erases:   make([]int, nPages),
	}
}

// PageSize returns the erase unit size.
func (mf *MemFlash) PageSize() int {
	return mf.pageSize
}

// Size returns the byte size of the flash.
func (mf *MemFlash) Size() int64 {
	return int64(len(mf.data))
}

// ErasePage sets every byte of the page starting at addr to 0xFF.
func (mf *MemFlash) ErasePage(addr int64) error {
	if err := checkErase(mf.Size(), mf.pageSize, addr); err != nil {
		return err
	}
	page := mf.data[addr : addr+int64(mf.pageSize)]
	for i := range page {
		page[i] = Erased
	}
	mf.erases[addr/int64(mf.pageSize)]++
	return nil
}

// Program clears the bits of p which are zero.
func (mf *MemFlash) Program(addr int64, p []byte) error {
	if err := checkRange(mf.Size(), addr, len(p)); err != nil {
		return err
	}
	for i, b := range p {
		mf.data[addr+int64(i)] &= b
	}
	return nil
}

// Read copies flash content at addr into p.
func (mf *MemFlash) Read(addr int64, p []byte) error {
	if err := checkRange(mf.Size(), addr, len(p)); err != nil {
		return err
	}
	copy(p, mf.data[addr:])
	return nil
}

// EraseCount returns how many times the page with the given index was erased.
func (mf *MemFlash) EraseCount(page int) int {
	return mf.erases[page]
}

// Bytes exposes the raw content, tests use it to inspect or damage the image.
func (mf *MemFlash) Bytes() []byte {
	return mf.data
}
