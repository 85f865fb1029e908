package eeprom

import (
	"encoding/binary"

	"github.com/sigurn/crc8"
)

// SlotSize is the width of one record slot and of the page header.
const SlotSize = 4

// Key identifies a stored variable.
type Key uint8

// NoKey is reserved to mark unused entries, it is never written.
const NoKey Key = 0xFF

// Record is one (key, value) pair as committed to flash.
type Record struct {
	Key   Key
	Value uint16
}

type slot [SlotSize]byte

var emptySlot = slot{0xFF, 0xFF, 0xFF, 0xFF}

func (s slot) empty() bool {
	return s == emptySlot
}

var crcParams = crc8.Params{
	Poly:   0x2F,
	Init:   0xFF,
	RefIn:  false,
	RefOut: false,
	XorOut: 0xFF,
	Check:  0xDF,
	Name:   "CRC-8/AUTOSAR",
}

// codec lays a record out as key | crc8 | value (little endian).
// The checksum covers the key byte followed by both value bytes.
type codec struct {
	table *crc8.Table
}

func newCodec() *codec {
	return &codec{table: crc8.MakeTable(crcParams)}
}

func (c *codec) checksum(data ...byte) byte {
	return crc8.Checksum(data, c.table)
}

func (c *codec) encode(r Record) slot {
	var s slot
	s[0] = byte(r.Key)
	binary.LittleEndian.PutUint16(s[2:], r.Value)
	s[1] = c.checksum(s[0], s[2], s[3])
	return s
}

// decode returns the record stored in s and whether its checksum holds.
// Empty and reserved-key slots decode to NoKey.
func (c *codec) decode(s slot) (Record, bool) {
	r := Record{
		Key:   Key(s[0]),
		Value: binary.LittleEndian.Uint16(s[2:]),
	}
	if r.Key == NoKey {
		return r, false
	}
	return r, s[1] == c.checksum(s[0], s[2], s[3])
}
