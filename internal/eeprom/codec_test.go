package eeprom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChecksumMatchesAutosarCheckValue(t *testing.T) {
	c := newCodec()
	require.EqualValues(t, 0xDF, c.checksum([]byte("123456789")...))
}

func TestEncodeLayout(t *testing.T) {
	requireT := require.New(t)

	c := newCodec()
	s := c.encode(Record{Key: 0x12, Value: 0xBEEF})
	requireT.EqualValues(0x12, s[0])
	requireT.EqualValues(0xEF, s[2])
	requireT.EqualValues(0xBE, s[3])
	requireT.Equal(c.checksum(0x12, 0xEF, 0xBE), s[1])

	r, ok := c.decode(s)
	requireT.True(ok)
	requireT.Equal(Record{Key: 0x12, Value: 0xBEEF}, r)
}

func TestEncodeNeverProducesEmptySlot(t *testing.T) {
	c := newCodec()
	for key := 0; key < int(NoKey); key++ {
		for _, value := range []uint16{0x0000, 0x00FF, 0xFF00, 0xFFFF} {
			require.False(t, c.encode(Record{Key: Key(key), Value: value}).empty())
		}
	}
}

func TestDecodeDetectsSingleBitDamage(t *testing.T) {
	c := newCodec()
	good := c.encode(Record{Key: 7, Value: 0x1234})
	for i := 0; i < SlotSize*8; i++ {
		damaged := good
		damaged[i/8] ^= 1 << (i % 8)
		r, ok := c.decode(damaged)
		if r.Key == NoKey {
			continue
		}
		require.False(t, ok, "bit %d", i)
	}
}

func TestDecodeEmptyAndReserved(t *testing.T) {
	requireT := require.New(t)

	c := newCodec()
	r, ok := c.decode(emptySlot)
	requireT.False(ok)
	requireT.Equal(NoKey, r.Key)

	r, ok = c.decode(slot{0xFF, 0x00, 0x00, 0x00})
	requireT.False(ok)
	requireT.Equal(NoKey, r.Key)
}
